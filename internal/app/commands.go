package app

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"hbnb_web/internal/domain"
	"hbnb_web/internal/pages"
	"hbnb_web/internal/render"
	"hbnb_web/internal/session"
)

const ReviewSubmittedText = "Review submitted successfully!"

// Command is a user action taken from a form or link.
type Command interface{ command() }

type LoginRequested struct {
	Email, Password string
}

// ReviewSubmitted comes from either review layout; Page says which.
type ReviewSubmitted struct {
	Page    pages.Kind
	PlaceID string
	Text    string
	Rating  string
}

type LogoutRequested struct{}

func (LoginRequested) command()  {}
func (ReviewSubmitted) command() {}
func (LogoutRequested) command() {}

// Outcome tells the transport what to do after a command.
type Outcome struct {
	SetToken   string
	ClearToken bool

	Redirect string // navigate; Flash rides along
	Flash    string
	Refresh  bool   // re-run the current page's load and render it
	Alert    string // show on the rendered page

	// values to put back into the form when it is shown again
	Email  string
	Text   string
	Rating int
}

type CommandService struct {
	api domain.APIClient
}

func NewCommandService(api domain.APIClient) *CommandService {
	return &CommandService{api: api}
}

func (s *CommandService) Handle(ctx context.Context, sess domain.Session, cmd Command) Outcome {
	switch c := cmd.(type) {
	case LoginRequested:
		return s.login(ctx, c)
	case ReviewSubmitted:
		return s.submitReview(ctx, sess, c)
	case LogoutRequested:
		return Outcome{ClearToken: true, Redirect: "index.html"}
	}
	log.Error().Msgf("unhandled command %T", cmd)
	return Outcome{}
}

func (s *CommandService) login(ctx context.Context, c LoginRequested) Outcome {
	email := strings.TrimSpace(c.Email)
	password := strings.TrimSpace(c.Password)

	tok, err := s.api.Login(ctx, email, password)
	if err != nil {
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) {
			log.Info().Int("status", apiErr.Status).Str("email", email).Msg("login rejected")
			return Outcome{Alert: "Login failed: " + apiErr.StatusText, Email: email}
		}
		log.Error().Err(err).Msg("login request failed")
		return Outcome{Alert: "Error: " + err.Error(), Email: email}
	}
	log.Info().Str("user", session.Subject(tok)).Msg("login ok")
	return Outcome{SetToken: tok, Redirect: "index.html"}
}

func (s *CommandService) submitReview(ctx context.Context, sess domain.Session, c ReviewSubmitted) Outcome {
	// The dedicated page is for signed-in users only; the inline form on the
	// details page lets the API do the refusing.
	if c.Page == pages.AddReview && !sess.Authenticated() {
		return Outcome{Redirect: "index.html"}
	}

	placeID := strings.TrimSpace(c.PlaceID)
	keep := Outcome{Text: c.Text}
	if placeID == "" {
		keep.Alert = render.MissingIDText
		return keep
	}
	rating, err := strconv.Atoi(strings.TrimSpace(c.Rating))
	if err != nil {
		keep.Alert = "Failed to submit review: Rating must be an integer"
		return keep
	}
	keep.Rating = rating

	_, err = s.api.SubmitReview(ctx, sess, domain.NewReview{Text: c.Text, Rating: rating, PlaceID: placeID})
	if err != nil {
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) {
			log.Info().Int("status", apiErr.Status).Str("place_id", placeID).Msg("review rejected")
			keep.Alert = "Failed to submit review: " + apiErr.Reason()
			return keep
		}
		log.Error().Err(err).Str("place_id", placeID).Msg("review request failed")
		keep.Alert = "Error submitting review: " + err.Error()
		return keep
	}

	log.Info().Str("user", session.Subject(sess.Token)).Str("place_id", placeID).Msg("review submitted")
	if c.Page == pages.Details {
		// form comes back empty, reviews are fetched again
		return Outcome{Refresh: true, Alert: ReviewSubmittedText}
	}
	return Outcome{Redirect: "place.html?id=" + url.QueryEscape(placeID), Flash: ReviewSubmittedText}
}
