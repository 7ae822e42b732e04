package render

import (
	"html/template"
	"strings"

	"github.com/rs/zerolog/log"
)

// Fragments are built with html/template so API-provided strings are escaped
// before they reach the document.
var (
	placeCardTmpl = template.Must(template.New("place-card").Parse(
		`<article class="place-card"{{if .Hidden}} style="display: none"{{end}} data-price="{{.Price}}">` +
			`<h3>{{.Title}}</h3>` +
			`<p>Price: ${{.Price}} per night</p>` +
			`<a href="place.html?id={{.ID}}" class="details-button">View Details</a>` +
			`</article>`))

	placeInfoTmpl = template.Must(template.New("place-info").Parse(
		`<article class="place-info">` +
			`<h1>{{.Title}}</h1>` +
			`<p><strong>Host:</strong> {{.Host}}</p>` +
			`<p><strong>Price per night:</strong> ${{.Price}}</p>` +
			`<p><strong>Description:</strong> {{.Description}}</p>` +
			`<p><strong>Amenities:</strong> {{.Amenities}}</p>` +
			`</article>`))

	reviewCardTmpl = template.Must(template.New("review-card").Parse(
		`<article class="review-card">` +
			`<h3 class="review-author">{{.Author}}</h3>` +
			`<p class="review-comment">"{{.Text}}"</p>` +
			`<p class="review-rating">Rating: {{.Stars}}</p>` +
			`</article>`))

	messageTmpl = template.Must(template.New("message").Parse(
		`<p{{if .Class}} class="{{.Class}}"{{end}}>{{.Text}}</p>`))
)

func exec(t *template.Template, data any) string {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		log.Error().Err(err).Str("template", t.Name()).Msg("render fragment failed")
		return ""
	}
	return b.String()
}

func message(class, text string) string {
	return exec(messageTmpl, struct{ Class, Text string }{class, text})
}
