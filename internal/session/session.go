// Package session holds the per-user interaction state: who is logged in, the
// uploaded image, the current prediction, the follow-up prompt, the rewards
// ledger and queued reward toasts. Every operation is serialized on the
// session's mutex and either applies completely or returns an error with no
// state change.
package session

import (
	"context"
	"image"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tphakala/smartwaste/internal/classifier"
	"github.com/tphakala/smartwaste/internal/conf"
	"github.com/tphakala/smartwaste/internal/errors"
	"github.com/tphakala/smartwaste/internal/logger"
	"github.com/tphakala/smartwaste/internal/notification"
	"github.com/tphakala/smartwaste/internal/recommend"
	"github.com/tphakala/smartwaste/internal/rewards"
)

// Stage is the externally visible interaction stage.
type Stage int

const (
	StageLoggedOut Stage = iota
	StageIdle
	StageImageUploaded
	StagePredictionShown
	StageFollowUpPending
)

func (s Stage) String() string {
	switch s {
	case StageLoggedOut:
		return "logged-out"
	case StageIdle:
		return "idle"
	case StageImageUploaded:
		return "image-uploaded"
	case StagePredictionShown:
		return "prediction-shown"
	case StageFollowUpPending:
		return "follow-up-pending"
	default:
		return "invalid"
	}
}

// Validation failures, shown inline to the user.
var (
	ErrEmptyName     = errors.NewStd("please enter a valid name to proceed")
	ErrNoImage       = errors.NewStd("please upload an image first")
	ErrEmptyLocation = errors.NewStd("please enter a location")
)

// Out-of-order actions.
var (
	ErrNotLoggedIn     = errors.NewStd("not logged in")
	ErrAlreadyLoggedIn = errors.NewStd("already logged in")
	ErrNoPrediction    = errors.NewStd("no prediction to act on")
	ErrNoChoice        = errors.NewStd("this item cannot be recycled or upcycled")
	ErrNoFollowUp      = errors.NewStd("no location prompt is open")
)

func validationErr(sentinel error) error {
	return errors.New(sentinel).
		Component("session").
		Category(errors.CategoryValidation).
		Build()
}

func stateErr(sentinel error, stage Stage) error {
	return errors.New(sentinel).
		Component("session").
		Category(errors.CategoryState).
		Context("stage", stage.String()).
		Build()
}

// Image is an uploaded photo. Data keeps the original bytes for display.
type Image struct {
	Data        []byte
	ContentType string
	Decoded     image.Image
}

// Predictor classifies an image. *classifier.Classifier implements it.
type Predictor interface {
	Classify(ctx context.Context, img image.Image) (classifier.Outcome, error)
}

// Prediction is the current recommendation plus the reward flags that make
// each credit fire once per prediction.
type Prediction struct {
	recommend.Result
	Confidence float32

	AcceptRewarded   bool
	LocationRewarded bool
}

// Session is one user's interaction state. The zero value is not usable;
// sessions are created by a Store.
type Session struct {
	mu sync.Mutex

	id         string
	user       string
	image      *Image
	prediction *Prediction
	followUp   bool
	ledger     rewards.Ledger
	language   string

	draftAuthor string
	draftIdea   string

	toasts []notification.Toast
}

func newSession(id string) *Session {
	return &Session{id: id, language: conf.DefaultLanguage}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

var titleCaser = cases.Title(language.Und)

// NormalizeName trims name and title-cases each word.
func NormalizeName(name string) string {
	return titleCaser.String(strings.TrimSpace(name))
}

// stageLocked derives the stage from the fields.
func (s *Session) stageLocked() Stage {
	switch {
	case s.user == "":
		return StageLoggedOut
	case s.followUp:
		return StageFollowUpPending
	case s.prediction != nil:
		return StagePredictionShown
	case s.image != nil:
		return StageImageUploaded
	default:
		return StageIdle
	}
}

// Stage returns the current interaction stage.
func (s *Session) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stageLocked()
}

func (s *Session) requireLogin() error {
	if s.user == "" {
		return stateErr(ErrNotLoggedIn, StageLoggedOut)
	}
	return nil
}

// Login sets the display name. An empty or whitespace-only name is rejected.
func (s *Session) Login(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user != "" {
		return stateErr(ErrAlreadyLoggedIn, s.stageLocked())
	}
	normalized := NormalizeName(name)
	if normalized == "" {
		return validationErr(ErrEmptyName)
	}
	s.user = normalized
	GetLogger().Info("user logged in", logger.String("session_id", s.id))
	return nil
}

// Logout clears everything except the session id and language.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = ""
	s.image = nil
	s.prediction = nil
	s.followUp = false
	s.ledger.Reset()
	s.draftAuthor, s.draftIdea = "", ""
	s.toasts = nil
	GetLogger().Info("user logged out", logger.String("session_id", s.id))
}

// SetLanguage stores the closest supported language to code.
func (s *Session) SetLanguage(code string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = conf.NormalizeLanguage(code)
	return s.language
}

// Language returns the selected UI language code.
func (s *Session) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

// Upload replaces the current image and discards any prediction.
func (s *Session) Upload(img Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLogin(); err != nil {
		return err
	}
	if len(img.Data) == 0 || img.Decoded == nil {
		return validationErr(ErrNoImage)
	}
	s.image = &img
	s.prediction = nil
	s.followUp = false
	return nil
}

// ClearImage removes the image and everything derived from it.
func (s *Session) ClearImage() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLogin(); err != nil {
		return err
	}
	s.image = nil
	s.prediction = nil
	s.followUp = false
	return nil
}

// Image returns the current upload.
func (s *Session) Image() (Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.image == nil {
		return Image{}, false
	}
	return *s.image, true
}

// Predict classifies the current image and replaces the prediction, reward
// flags included. A disposable result opens the location prompt directly.
func (s *Session) Predict(ctx context.Context, p Predictor) (Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLogin(); err != nil {
		return Prediction{}, err
	}
	if s.image == nil {
		return Prediction{}, validationErr(ErrNoImage)
	}

	out, err := p.Classify(ctx, s.image.Decoded)
	if err != nil {
		return Prediction{}, err
	}

	pred := &Prediction{
		Result:     recommend.Resolve(out.Class),
		Confidence: out.Confidence,
	}
	s.prediction = pred
	s.followUp = pred.IsDisposable()

	GetLogger().Info("prediction made",
		logger.String("session_id", s.id),
		logger.String("class", string(pred.Class)),
		logger.String("category", string(pred.Category)),
		logger.String("method", string(pred.Method)))

	return *pred, nil
}

// AcceptResult is what the user sees after accepting a recommendation.
type AcceptResult struct {
	Suggestions []string
	IdeasLink   string
	Credited    int
}

// Accept takes the recyclable or upcyclable route. The first accept of a
// prediction credits AcceptPoints and queues a toast; repeats show the same
// suggestions without crediting.
func (s *Session) Accept() (AcceptResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireChoiceLocked(); err != nil {
		return AcceptResult{}, err
	}

	p := s.prediction
	res := AcceptResult{
		Suggestions: p.Suggestions(),
		IdeasLink:   p.IdeasLink(),
	}

	if !p.AcceptRewarded {
		if _, err := s.ledger.Credit(rewards.AcceptPoints); err != nil {
			return AcceptResult{}, err
		}
		p.AcceptRewarded = true
		res.Credited = rewards.AcceptPoints
		s.toasts = append(s.toasts, notification.NewToast(notification.ToastAccept, rewards.AcceptPoints).WithVerb(p.Verb()))
	}
	return res, nil
}

// Decline opens the location prompt for finding a nearby center.
func (s *Session) Decline() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireChoiceLocked(); err != nil {
		return err
	}
	s.followUp = true
	return nil
}

func (s *Session) requireChoiceLocked() error {
	if err := s.requireLogin(); err != nil {
		return err
	}
	if s.prediction == nil {
		return stateErr(ErrNoPrediction, s.stageLocked())
	}
	if !s.prediction.OffersChoice() {
		return stateErr(ErrNoChoice, s.stageLocked())
	}
	return nil
}

// LocationResult is the search link for a submitted location.
type LocationResult struct {
	Link     string
	Credited int
}

// SubmitLocation answers the open location prompt. On the disposable path the
// first submission credits LocationPoints; the decline path never credits.
func (s *Session) SubmitLocation(address string) (LocationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLogin(); err != nil {
		return LocationResult{}, err
	}
	if !s.followUp || s.prediction == nil {
		return LocationResult{}, stateErr(ErrNoFollowUp, s.stageLocked())
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return LocationResult{}, validationErr(ErrEmptyLocation)
	}

	p := s.prediction
	if !p.IsDisposable() {
		return LocationResult{Link: p.CenterSearchLink(address)}, nil
	}

	res := LocationResult{Link: recommend.DisposalSearchLink(address)}
	if !p.LocationRewarded {
		if _, err := s.ledger.Credit(rewards.LocationPoints); err != nil {
			return LocationResult{}, err
		}
		p.LocationRewarded = true
		res.Credited = rewards.LocationPoints
		s.toasts = append(s.toasts, notification.NewToast(notification.ToastLocation, rewards.LocationPoints))
	}
	return res, nil
}

// Reward credits points earned outside the prediction flow, such as a shared
// idea, and queues toast.
func (s *Session) Reward(points int, toast notification.Toast) (rewards.Standing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLogin(); err != nil {
		return rewards.Standing{}, err
	}
	if _, err := s.ledger.Credit(points); err != nil {
		return rewards.Standing{}, err
	}
	s.toasts = append(s.toasts, toast)
	return s.ledger.Standing(), nil
}

// SetDraft remembers forum form input so a failed submission can be re-shown.
func (s *Session) SetDraft(author, idea string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draftAuthor, s.draftIdea = author, idea
}

// ClearDraft empties the forum form.
func (s *Session) ClearDraft() {
	s.SetDraft("", "")
}

// DrainToasts returns and clears the queued toasts.
func (s *Session) DrainToasts() []notification.Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.toasts
	s.toasts = nil
	return t
}

// Standing returns the user's points, level and progress.
func (s *Session) Standing() rewards.Standing {
	return s.ledger.Standing()
}

// View is a consistent snapshot for rendering.
type View struct {
	ID          string
	Stage       Stage
	User        string
	Language    string
	HasImage    bool
	Prediction  *Prediction
	Standing    rewards.Standing
	DraftAuthor string
	DraftIdea   string
}

// Snapshot returns the current state without draining toasts.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		ID:          s.id,
		Stage:       s.stageLocked(),
		User:        s.user,
		Language:    s.language,
		HasImage:    s.image != nil,
		Standing:    s.ledger.Standing(),
		DraftAuthor: s.draftAuthor,
		DraftIdea:   s.draftIdea,
	}
	if s.prediction != nil {
		p := *s.prediction
		v.Prediction = &p
	}
	return v
}
