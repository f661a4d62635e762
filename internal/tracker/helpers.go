package tracker

import (
	"clicktrack/internal/classify"
	"clicktrack/internal/model"
)

// Helpers is the helper namespace exposed to test harnesses. Each
// function is the one the tracker itself uses, bound to its config.
type Helpers struct {
	NormalizeHost    func(host string) string
	FileTypeFromPath func(path string) (string, bool)
	SanitizeEmail    func(href string) (string, bool)
	Emit             func(name model.Kind, payload model.Payload) model.Event
}

func (t *Tracker) Helpers() Helpers {
	return Helpers{
		NormalizeHost:    classify.NormalizeHost,
		FileTypeFromPath: classify.FileTypeFromPath,
		SanitizeEmail:    t.classifier.SanitizeEmail,
		Emit:             t.Emit,
	}
}
