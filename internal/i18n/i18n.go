package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github/chapool/evm-wallet/internal/wallet/walleterr"
	"golang.org/x/text/language"
)

//go:embed messages/*.toml
var embeddedMessages embed.FS

const genericErrorKey = "generic.error"

// Data is passed to message templates
type Data map[string]string

// Template is the user facing description of an error code
type Template struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Action  string `json:"action"`
}

// Service renders localized error templates
type Service struct {
	bundle  *i18n.Bundle
	matcher language.Matcher
}

// New loads the embedded message files with defaultLanguage as fallback
func New(defaultLanguage language.Tag) (*Service, error) {
	return NewFromFS(embeddedMessages, "messages", defaultLanguage)
}

// NewFromFS loads every *.toml message file below dir of fsys
func NewFromFS(fsys fs.FS, dir string, defaultLanguage language.Tag) (*Service, error) {
	bundle := i18n.NewBundle(defaultLanguage)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(fsys, path.Join(dir, "*.toml"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list message files")
	}

	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(fsys, file); err != nil {
			return nil, errors.Wrapf(err, "failed to load message file %s", file)
		}
	}

	return &Service{
		bundle:  bundle,
		matcher: language.NewMatcher(bundle.LanguageTags()),
	}, nil
}

// Translate returns the message for key, or key itself when missing
func (s *Service) Translate(key string, lang language.Tag, data ...Data) string {
	localizer := i18n.NewLocalizer(s.bundle, lang.String())

	config := &i18n.LocalizeConfig{MessageID: key}
	if len(data) > 0 {
		config.TemplateData = data[0]
	}

	msg, err := localizer.Localize(config)
	if err != nil {
		log.Debug().Err(err).Str("key", key).Str("lang", lang.String()).Msg("Failed to translate key")
		return key
	}
	return msg
}

// Template returns the template for code, false when none is defined
func (s *Service) Template(code walleterr.Code, lang language.Tag) (Template, bool) {
	title := string(code) + ".title"
	translated := s.Translate(title, lang)
	if translated == title {
		return Template{}, false
	}

	return Template{
		Title:   translated,
		Message: s.Translate(string(code)+".message", lang),
		Action:  s.Translate(string(code)+".action", lang),
	}, true
}

// FormatError renders err as "<title>: <message>\n<action>" for known codes
// and "Error: <message>" for anything else
func (s *Service) FormatError(err error, lang language.Tag) string {
	if err == nil {
		return ""
	}

	if tmpl, ok := s.Template(walleterr.CodeOf(err), lang); ok {
		return fmt.Sprintf("%s: %s\n%s", tmpl.Title, tmpl.Message, tmpl.Action)
	}

	return s.Translate(genericErrorKey, lang, Data{"Message": err.Error()})
}

// ParseAcceptLanguage picks the best supported language of an
// Accept-Language header
func (s *Service) ParseAcceptLanguage(header string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return s.bundle.LanguageTags()[0]
	}

	_, idx, _ := s.matcher.Match(tags...)
	return s.bundle.LanguageTags()[idx]
}
