// Package i18n holds the fixed translation tables of the diagram form.
//
// Only three languages are supported: French (the default), German and
// Italian. The rendering core never looks strings up itself; callers resolve
// a [Bundle] and pass the localized step label and default title down as
// plain values.
package i18n

import (
	"fmt"
	"strings"

	errs "github.com/matzehuels/seqdiagram/pkg/errors"
)

// Lang is a language key.
type Lang string

// Supported languages.
const (
	French  Lang = "fr"
	German  Lang = "de"
	Italian Lang = "it"
)

// Default is used when no language is requested.
const Default = French

// Supported lists the languages in selector order.
var Supported = []Lang{French, German, Italian}

// Bundle is the set of strings shown by the form for one language.
type Bundle struct {
	Lang            Lang
	LanguageName    string
	ChooseLanguage  string
	Title           string
	TimeMax         string
	NumDevices      string
	DeviceName      string
	States          string
	CommaSeparated  string
	LineStyle       string
	Durations       string
	AddDurations    string
	DurationSteps   string
	DurationValues  string
	Generate        string
	Download        string
	Step            string
	SequenceDiagram string
	DefaultDevice   string
	Solid           string
	Dashed          string
	UpdateDevices   string
	Error           string
}

var bundles = map[Lang]Bundle{
	French: {
		Lang:            French,
		LanguageName:    "Français",
		ChooseLanguage:  "Choisissez la langue",
		Title:           "Générateur de Diagramme de Séquence",
		TimeMax:         "Temps maximum",
		NumDevices:      "Nombre d'appareils",
		DeviceName:      "Nom de l'appareil",
		States:          "États pour",
		CommaSeparated:  "séparés par des virgules",
		LineStyle:       "Style de ligne pour",
		Durations:       "Durée (en secondes) pour chaque appareil (sous la courbe)",
		AddDurations:    "Ajouter des durées spécifiques sous les courbes",
		DurationSteps:   "Étapes pour afficher la durée sous",
		DurationValues:  "Durées correspondantes (en secondes) pour",
		Generate:        "Générer le diagramme",
		Download:        "Télécharger le diagramme en PDF",
		Step:            "Étape",
		SequenceDiagram: "Diagramme de Séquence",
		DefaultDevice:   "Appareil",
		Solid:           "continu",
		Dashed:          "tirets",
		UpdateDevices:   "Mettre à jour",
		Error:           "Erreur lors de la génération du diagramme",
	},
	German: {
		Lang:            German,
		LanguageName:    "Deutsch",
		ChooseLanguage:  "Sprache wählen",
		Title:           "Sequenzdiagramm-Generator",
		TimeMax:         "Maximale Zeit",
		NumDevices:      "Anzahl der Geräte",
		DeviceName:      "Name des Geräts",
		States:          "Zustände für",
		CommaSeparated:  "durch Kommas getrennt",
		LineStyle:       "Linienstil für",
		Durations:       "Dauer (in Sekunden) für jedes Gerät (unter der Kurve)",
		AddDurations:    "Bestimmte Dauern unter den Kurven hinzufügen",
		DurationSteps:   "Schritte für die Dauer unter",
		DurationValues:  "Zugehörige Dauern (in Sekunden) für",
		Generate:        "Diagramm erzeugen",
		Download:        "Diagramm als PDF herunterladen",
		Step:            "Schritt",
		SequenceDiagram: "Sequenzdiagramm",
		DefaultDevice:   "Gerät",
		Solid:           "durchgezogen",
		Dashed:          "gestrichelt",
		UpdateDevices:   "Aktualisieren",
		Error:           "Fehler beim Erzeugen des Diagramms",
	},
	Italian: {
		Lang:            Italian,
		LanguageName:    "Italiano",
		ChooseLanguage:  "Scegli la lingua",
		Title:           "Generatore di Diagrammi di Sequenza",
		TimeMax:         "Tempo massimo",
		NumDevices:      "Numero di dispositivi",
		DeviceName:      "Nome del dispositivo",
		States:          "Stati per",
		CommaSeparated:  "separati da virgole",
		LineStyle:       "Stile di linea per",
		Durations:       "Durata (in secondi) per ogni dispositivo (sotto la curva)",
		AddDurations:    "Aggiungi durate specifiche sotto le curve",
		DurationSteps:   "Passi per mostrare la durata sotto",
		DurationValues:  "Durate corrispondenti (in secondi) per",
		Generate:        "Genera il diagramma",
		Download:        "Scarica il diagramma in PDF",
		Step:            "Passo",
		SequenceDiagram: "Diagramma di Sequenza",
		DefaultDevice:   "Dispositivo",
		Solid:           "continua",
		Dashed:          "tratteggiata",
		UpdateDevices:   "Aggiorna",
		Error:           "Errore durante la generazione del diagramma",
	},
}

// ParseLang normalizes a language key. An empty key yields Default.
func ParseLang(s string) (Lang, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Default, nil
	}
	l := Lang(s)
	if _, ok := bundles[l]; !ok {
		return "", errs.New(errs.ErrCodeInvalidLanguage, "unsupported language: %q (must be one of: fr, de, it)", s)
	}
	return l, nil
}

// Lookup returns the bundle for l.
func Lookup(l Lang) (Bundle, error) {
	b, ok := bundles[l]
	if !ok {
		return Bundle{}, errs.New(errs.ErrCodeInvalidLanguage, "unsupported language: %q (must be one of: fr, de, it)", string(l))
	}
	return b, nil
}

// MustLookup is Lookup for keys known to be valid, such as the constants
// above. It panics on an unknown key.
func MustLookup(l Lang) Bundle {
	b, err := Lookup(l)
	if err != nil {
		panic(err)
	}
	return b
}

// DeviceLabel returns the default name of the i-th device (1-based).
func (b Bundle) DeviceLabel(i int) string {
	return fmt.Sprintf("%s %d", b.DefaultDevice, i)
}
