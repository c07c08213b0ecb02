package api

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/Martin09/GrandmaTVController/internal/infrastructure/config"
)

//go:embed remote.html.tmpl
var remotePageTemplate string

// defaultButtons is the layout used when the config defines none. Big
// buttons, high contrast, one tap per outcome.
var defaultButtons = []config.ButtonConfig{
	{Label: "ČT 1", Action: "channel_1", Color: "#1565c0"},
	{Label: "ČT 2", Action: "channel_2", Color: "#2e7d32"},
	{Label: "Zapnout", Action: "turn_on", Color: "#6a1b9a"},
	{Label: "Vypnout", Action: "turn_off", Color: "#b71c1c"},
}

// renderRemotePage renders the remote-control page once, at startup. The
// button layout is static per process, so there is nothing to re-render per
// request.
func renderRemotePage(buttons []config.ButtonConfig) ([]byte, error) {
	if len(buttons) == 0 {
		buttons = defaultButtons
	}

	tmpl, err := template.New("remote").Parse(remotePageTemplate)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct {
		Buttons []config.ButtonConfig
	}{Buttons: buttons}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
