package main

import (
	"context"
	"os"

	"github.com/soffa-projects/loctool/config"
	"github.com/soffa-projects/loctool/formats/javaprops"
	"github.com/soffa-projects/loctool/h"
	"github.com/soffa-projects/loctool/log"
	"github.com/soffa-projects/loctool/workflow"
	"github.com/ztrue/tracerr"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

func main() {
	settings, err := config.Load()
	if err == nil {
		err = run(context.Background(), os.Args[1:], settings)
	}
	if err != nil {
		if log.IsDebug() {
			tracerr.PrintSourceColor(tracerr.Wrap(err))
		} else {
			log.Error("%v", err)
		}
		os.Exit(1)
	}
	log.Info("done")
}

func run(ctx context.Context, args []string, settings config.Settings) error {
	app := kingpin.New("loctool", "Extract localizable strings from source code and exchange translations as XLIFF.")
	locales := app.Flag("locales", "Restrict the operation to these comma separated BCP-47 locales.").Short('l').String()
	logLevel := app.Flag("log-level", "Log level: debug, info, warn or error.").Default(h.FirstNonEmpty(settings.LogLevel, "info")).String()

	localizeCmd := app.Command("localize", "Extract strings and generate localized resource files.").Default()
	localizeRoot := localizeCmd.Arg("root", "Directory containing the projects.").Default(h.FirstNonEmpty(settings.RootDir, ".")).String()

	reportCmd := app.Command("report", "Report the translation status per locale without writing resource files.")

	exportCmd := app.Command("export", "Export the new strings, by default to one new-<locale>.xliff per locale.")
	exportFile := exportCmd.Arg("file", "Export every locale to this single file.").String()

	importCmd := app.Command("import", "Import the translated strings of XLIFF files.")
	importFiles := importCmd.Arg("files", "XLIFF files to import.").Required().Strings()

	splitCmd := app.Command("split", "Split XLIFF files by language or project into <value>.xliff files.")
	splitBy := splitCmd.Arg("type", "language or project").Required().Enum(string(workflow.SplitLanguage), string(workflow.SplitProject))
	splitFiles := splitCmd.Arg("files", "XLIFF files to split.").Required().Strings()

	mergeCmd := app.Command("merge", "Merge XLIFF files into one.")
	mergeOut := mergeCmd.Arg("outfile", "File to write.").Required().String()
	mergeFiles := mergeCmd.Arg("files", "XLIFF files to merge.").Required().Strings()

	rekeyCmd := app.Command("rekey", "Replace the keys of units by the hash of their source text, writing <file>-new.xliff.")
	rekeyTypes := rekeyCmd.Flag("datatype", "Datatype of the units to re-key, repeatable.").Default(javaprops.Datatype).Strings()
	rekeyFiles := rekeyCmd.Arg("files", "XLIFF files to re-key.").Required().Strings()

	command, err := app.Parse(args)
	if err != nil {
		return err
	}
	if err := log.Configure(*logLevel, nil); err != nil {
		return err
	}
	if *locales != "" {
		if settings.Locales, err = config.CanonicalLocales(h.SplitList(*locales)); err != nil {
			return err
		}
	}
	log.Info("loctool %s", command)

	r, err := newRunner(settings)
	if err != nil {
		return err
	}
	defer r.Close()

	switch command {
	case localizeCmd.FullCommand():
		return r.localize(ctx, *localizeRoot)
	case reportCmd.FullCommand():
		return r.report(ctx)
	case exportCmd.FullCommand():
		return r.export(ctx, *exportFile)
	case importCmd.FullCommand():
		return r.importFiles(ctx, *importFiles)
	case splitCmd.FullCommand():
		return r.split(*splitBy, *splitFiles)
	case mergeCmd.FullCommand():
		return r.merge(*mergeOut, *mergeFiles)
	case rekeyCmd.FullCommand():
		return r.rekey(*rekeyTypes, *rekeyFiles)
	}
	return nil
}
