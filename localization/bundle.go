package localization

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pitabwire/util"
	"golang.org/x/text/language"
)

const defaultTranslationsFolder = "localization"

// NewBundleLoader returns a Loader that resolves locale modules from
// go-i18n message files laid out as <folder>/messages.<locale>.toml.
// Every message id in the file becomes a TemplateFunc entry; when invoked
// with a map[string]any as its first argument the map is used as template
// data, so parameterized messages render through go-i18n's engine.
func NewBundleLoader(translationsFolder string) Loader {
	if translationsFolder == "" {
		translationsFolder = defaultTranslationsFolder
	}

	return func(ctx context.Context, locale string) (*Module, error) {
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("localization: invalid locale tag %q: %w", locale, err)
		}

		path := fmt.Sprintf("%s/messages.%s.toml", translationsFolder, locale)

		var raw map[string]any
		if _, err = toml.DecodeFile(path, &raw); err != nil {
			return nil, fmt.Errorf("localization: could not read message file %s: %w", path, err)
		}

		bundle := i18n.NewBundle(tag)
		bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
		if _, err = bundle.LoadMessageFile(path); err != nil {
			return nil, fmt.Errorf("localization: could not load message file %s: %w", path, err)
		}

		localizer := i18n.NewLocalizer(bundle, locale)

		templates := make(map[string]any, len(raw))
		for id := range raw {
			templates[id] = messageTemplate(ctx, localizer, id)
		}

		return &Module{Templates: templates}, nil
	}
}

func messageTemplate(ctx context.Context, localizer *i18n.Localizer, id string) TemplateFunc {
	return func(args ...any) any {
		cfg := &i18n.LocalizeConfig{
			MessageID:      id,
			DefaultMessage: &i18n.Message{ID: id},
		}

		if len(args) > 0 {
			if variables, ok := args[0].(map[string]any); ok {
				cfg.TemplateData = variables
				if count, cOk := variables["PluralCount"]; cOk {
					cfg.PluralCount = count
				}
			}
		}

		localized, err := localizer.Localize(cfg)
		if err != nil {
			util.Log(ctx).WithError(err).WithField("messageID", id).Error("could not localize message")
			return id
		}
		return localized
	}
}
