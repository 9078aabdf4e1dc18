package server

import (
	"embed"
	"html/template"
	"io"

	"github.com/matzehuels/seqdiagram/pkg/i18n"
)

//go:embed templates/*.html
var templateFS embed.FS

var formTemplate = template.Must(template.New("form.html").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).ParseFS(templateFS, "templates/form.html"))

// formView is the data of templates/form.html.
type formView struct {
	Bundle     i18n.Bundle
	Languages  []i18n.Bundle
	Form       diagramForm
	Error      string
	Formats    []string
	MinDevices int
	MaxDevices int
	MaxStepMax int
}

func newFormView(f diagramForm, errMsg string) formView {
	langs := make([]i18n.Bundle, len(i18n.Supported))
	for i, l := range i18n.Supported {
		langs[i] = i18n.MustLookup(l)
	}
	return formView{
		Bundle:     i18n.MustLookup(f.Lang),
		Languages:  langs,
		Form:       f,
		Error:      errMsg,
		Formats:    formFormats,
		MinDevices: MinDevices,
		MaxDevices: MaxDevices,
		MaxStepMax: MaxStepMax,
	}
}

func renderForm(w io.Writer, v formView) error {
	return formTemplate.Execute(w, v)
}
