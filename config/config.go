package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/soffa-projects/loctool/log"
	"golang.org/x/text/language"
)

const (
	DefaultSourceLocale = "en-US"
	DefaultPseudoLocale = "zxx-XX"
)

// Settings configures one run of the tool. It is passed explicitly to every component.
type Settings struct {
	SourceLocale string   `envconfig:"SOURCE_LOCALE" default:"en-US"`
	PseudoLocale string   `envconfig:"PSEUDO_LOCALE" default:"zxx-XX"`
	Locales      []string `envconfig:"LOCALES"`
	LogLevel     string   `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL  string   `envconfig:"DATABASE_URL"`
	OutputDir    string   `envconfig:"OUTPUT_DIR" default:"."`
	RootDir      string   `envconfig:"ROOT_DIR" default:"."`
}

// Load reads LOCTOOL_* variables, from a .env file too when not in production.
func Load() (Settings, error) {
	var cfg Settings
	env := os.Getenv("ENV")
	if env != "production" && env != "prod" {
		err := godotenv.Load(".env")
		if err != nil && !os.IsNotExist(err) {
			log.Warn("unable to load .env file: %v", err)
		}
	}
	if err := envconfig.Process("loctool", &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Normalize(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Normalize canonicalizes the locale tags and rejects unparseable ones.
func (s *Settings) Normalize() error {
	if s.SourceLocale == "" {
		s.SourceLocale = DefaultSourceLocale
	}
	if s.PseudoLocale == "" {
		s.PseudoLocale = DefaultPseudoLocale
	}
	src, err := CanonicalLocale(s.SourceLocale)
	if err != nil {
		return err
	}
	s.SourceLocale = src
	locales, err := CanonicalLocales(s.Locales)
	if err != nil {
		return err
	}
	s.Locales = locales
	return nil
}

// CanonicalLocale validates a BCP-47 tag and returns its canonical casing, e.g. "de-de" -> "de-DE".
func CanonicalLocale(tag string) (string, error) {
	t, err := language.Parse(tag)
	if err != nil {
		return "", fmt.Errorf("config: invalid locale %q: %w", tag, err)
	}
	return t.String(), nil
}

func CanonicalLocales(tags []string) ([]string, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		c, err := CanonicalLocale(tag)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
