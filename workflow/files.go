package workflow

import (
	"os"
	"path/filepath"

	"github.com/soffa-projects/loctool/errors"
	"github.com/soffa-projects/loctool/log"
	"github.com/soffa-projects/loctool/xliff"
	"go.uber.org/multierr"
)

// Report lists the inputs that were skipped, each as an IO or Malformed error.
type Report struct {
	Read       int
	Unreadable int
	Malformed  int
	Skipped    []error
}

// ReadDocuments loads every path. Unreadable or malformed files are logged, recorded in
// the report and skipped.
func ReadDocuments(paths ...string) ([]*xliff.Document, Report) {
	var docs []*xliff.Document
	var report Report
	for _, path := range paths {
		doc, err := ReadDocument(path)
		if err != nil {
			log.Warn("skipping %s: %v", path, err)
			report.Skipped = append(report.Skipped, err)
			if errors.IsMalformed(err) {
				report.Malformed++
			} else if errors.GetCode(err) == errors.CodeIO {
				report.Unreadable++
			}
			continue
		}
		report.Read++
		docs = append(docs, doc)
	}
	return docs, report
}

func ReadDocument(path string) (*xliff.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IO(path, err)
	}
	doc := xliff.New(path)
	if err := doc.Deserialize(data); err != nil {
		return nil, errors.MalformedDocument(path, err)
	}
	return doc, nil
}

// WriteDocuments writes each document to its path. A failed output does not stop the
// others; all failures are returned together.
func WriteDocuments(docs ...*xliff.Document) error {
	var result error
	for _, doc := range docs {
		if err := WriteDocument(doc); err != nil {
			log.Error("%v", err)
			result = multierr.Append(result, err)
			continue
		}
		log.Info("wrote %d units to %s", doc.Size(), doc.Path())
	}
	return result
}

func WriteDocument(doc *xliff.Document) error {
	data, err := doc.Serialize()
	if err != nil {
		return errors.Unwritable(doc.Path(), err)
	}
	if dir := filepath.Dir(doc.Path()); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Unwritable(doc.Path(), err)
		}
	}
	if err := os.WriteFile(doc.Path(), data, 0o644); err != nil {
		return errors.Unwritable(doc.Path(), err)
	}
	return nil
}
