package i18n

import (
	"embed"
	"encoding/json"
	"io/fs"
	"sync"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var locales embed.FS

var (
	mu     sync.RWMutex
	bundle *goi18n.Bundle
)

// Init creates the bundle and loads the embedded locale files. Calling it
// more than once is harmless.
func Init() error {
	mu.Lock()
	defer mu.Unlock()

	b := goi18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	files, err := fs.Glob(locales, "locales/*.json")
	if err != nil {
		return err
	}
	for _, name := range files {
		data, err := locales.ReadFile(name)
		if err != nil {
			return err
		}
		if _, err := b.ParseMessageFileBytes(data, name); err != nil {
			return err
		}
	}
	bundle = b
	return nil
}

// Load adds an extra locale file from disk, e.g. a deployment override.
func Load(path string) error {
	mu.Lock()
	defer mu.Unlock()
	if bundle == nil {
		bundle = goi18n.NewBundle(language.English)
		bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	}
	_, err := bundle.LoadMessageFile(path)
	return err
}

// T localizes messageID for the given Accept-Language value. Unknown ids are
// returned unchanged so callers always have something to show.
func T(acceptLanguage, messageID string, data map[string]any) string {
	mu.RLock()
	b := bundle
	mu.RUnlock()
	if b == nil {
		return messageID
	}

	loc := goi18n.NewLocalizer(b, acceptLanguage, language.English.String())
	msg, err := loc.Localize(&goi18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID
	}
	return msg
}
