package httpcontroller

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/smartwaste/internal/classifier"
	"github.com/tphakala/smartwaste/internal/errors"
	"github.com/tphakala/smartwaste/internal/forum"
	"github.com/tphakala/smartwaste/internal/logger"
	"github.com/tphakala/smartwaste/internal/mqtt"
	"github.com/tphakala/smartwaste/internal/notification"
	"github.com/tphakala/smartwaste/internal/session"
)

const sessionContextKey = "session"

// withSession loads the caller's session into the context and routes handler
// errors through HandleError.
func (s *Server) withSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := s.deps.Sessions.Load(c.Response(), c.Request())
		if err != nil {
			return err
		}
		c.Set(sessionContextKey, sess)
		if err := next(c); err != nil {
			return s.HandleError(err, c, sess)
		}
		return nil
	}
}

func sessionFrom(c echo.Context) *session.Session {
	sess, _ := c.Get(sessionContextKey).(*session.Session)
	return sess
}

// HandleError renders user facing failures inline on the main page. Anything
// that is not a validation or state problem is logged and shown generically.
func (s *Server) HandleError(err error, c echo.Context, sess *session.Session) error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	code := http.StatusInternalServerError
	switch {
	case errors.IsValidation(err):
		code = http.StatusUnprocessableEntity
	case errors.IsCategory(err, errors.CategoryState):
		code = http.StatusConflict
	default:
		GetLogger().Error("request failed",
			logger.String("request_id", requestID(c)),
			logger.String("path", c.Path()),
			logger.Error(err))
	}
	return s.render(c, sess, code, Flash{ErrorID: messageIDFor(err)})
}

// messageIDFor maps an error to the catalog message shown to the user.
func messageIDFor(err error) string {
	switch {
	case errors.Is(err, session.ErrEmptyName):
		return "err_empty_name"
	case errors.Is(err, session.ErrNoImage):
		return "err_no_image"
	case errors.Is(err, session.ErrEmptyLocation):
		return "err_empty_location"
	case errors.Is(err, forum.ErrIncompleteIdea):
		return "err_incomplete_idea"
	case errors.Is(err, classifier.ErrUnsupportedImage),
		errors.IsCategory(err, errors.CategoryImageDecode):
		return "err_unsupported_image"
	case errors.Is(err, classifier.ErrImageTooLarge):
		return "err_image_too_large"
	case errors.IsCategory(err, errors.CategoryState):
		return "err_action_unavailable"
	default:
		return "err_generic"
	}
}

func (s *Server) render(c echo.Context, sess *session.Session, code int, flash Flash) error {
	return c.Render(code, "index", s.buildPage(c, sess, flash))
}

func (s *Server) handleIndex(c echo.Context) error {
	sess, err := s.deps.Sessions.Load(c.Response(), c.Request())
	if err != nil {
		return err
	}
	return s.render(c, sess, http.StatusOK, Flash{})
}

func (s *Server) handleImage(c echo.Context) error {
	sess, err := s.deps.Sessions.Load(c.Response(), c.Request())
	if err != nil {
		return err
	}
	img, ok := sess.Image()
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no image uploaded")
	}
	return c.Blob(http.StatusOK, img.ContentType, img.Data)
}

func (s *Server) handleLogin(c echo.Context) error {
	if err := sessionFrom(c).Login(c.FormValue("name")); err != nil {
		return err
	}
	return redirectHome(c)
}

func (s *Server) handleLogout(c echo.Context) error {
	sessionFrom(c).Logout()
	return redirectHome(c)
}

func (s *Server) handleLanguage(c echo.Context) error {
	sessionFrom(c).SetLanguage(c.FormValue("lang"))
	return redirectHome(c)
}

func (s *Server) handleUpload(c echo.Context) error {
	sess := sessionFrom(c)

	fh, err := c.FormFile("image")
	if err != nil {
		return errors.New(session.ErrNoImage).
			Component("httpcontroller").
			Category(errors.CategoryValidation).
			Build()
	}
	f, err := fh.Open()
	if err != nil {
		return errors.New(err).Component("httpcontroller").Category(errors.CategoryFileIO).Build()
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return errors.New(err).Component("httpcontroller").Category(errors.CategoryFileIO).Build()
	}
	decoded, format, err := classifier.DecodeUpload(bytes.NewReader(data))
	if err != nil {
		return err
	}

	if err := sess.Upload(session.Image{Data: data, ContentType: "image/" + format, Decoded: decoded}); err != nil {
		return err
	}
	GetLogger().Debug("image uploaded",
		logger.String("session_id", sess.ID()),
		logger.String("format", format),
		logger.Int("bytes", len(data)))
	return redirectHome(c)
}

func (s *Server) handleClear(c echo.Context) error {
	if err := sessionFrom(c).ClearImage(); err != nil {
		return err
	}
	return redirectHome(c)
}

func (s *Server) handlePredict(c echo.Context) error {
	if s.deps.Predictor == nil {
		return errors.Newf("classifier not available").
			Component("httpcontroller").
			Category(errors.CategoryModelInit).
			Build()
	}
	pred, err := sessionFrom(c).Predict(c.Request().Context(), s.deps.Predictor)
	if err != nil {
		return err
	}
	s.deps.Publisher.PublishClassification(c.Request().Context(), mqtt.ClassificationEvent{
		Class:      string(pred.Class),
		Category:   string(pred.Category),
		Method:     string(pred.Method),
		Confidence: pred.Confidence,
		Timestamp:  time.Now(),
	})
	return redirectHome(c)
}

func (s *Server) handleAccept(c echo.Context) error {
	sess := sessionFrom(c)
	res, err := sess.Accept()
	if err != nil {
		return err
	}
	s.recordPoints(notification.ToastAccept, res.Credited)
	return s.render(c, sess, http.StatusOK, Flash{
		Suggestions: res.Suggestions,
		IdeasLink:   res.IdeasLink,
	})
}

func (s *Server) handleDecline(c echo.Context) error {
	if err := sessionFrom(c).Decline(); err != nil {
		return err
	}
	return redirectHome(c)
}

func (s *Server) handleLocation(c echo.Context) error {
	sess := sessionFrom(c)
	disposable := false
	if p := sess.Snapshot().Prediction; p != nil {
		disposable = p.IsDisposable()
	}

	res, err := sess.SubmitLocation(c.FormValue("location"))
	if err != nil {
		return err
	}
	s.recordPoints(notification.ToastLocation, res.Credited)

	label := "centers_link"
	if disposable {
		label = "disposal_link"
	}
	return s.render(c, sess, http.StatusOK, Flash{SearchLink: res.Link, LinkLabelID: label})
}

func (s *Server) handleIdeas(c echo.Context) error {
	if s.deps.Forum == nil {
		return errors.Newf("community forum not available").
			Component("httpcontroller").
			Category(errors.CategoryConfiguration).
			Build()
	}
	_, err := s.deps.Forum.Submit(c.Request().Context(), sessionFrom(c), c.FormValue("author"), c.FormValue("idea"))
	if err != nil {
		return err
	}
	return redirectHome(c)
}

func (s *Server) recordPoints(kind notification.ToastKind, points int) {
	if s.deps.Metrics == nil || points == 0 {
		return
	}
	s.deps.Metrics.App.RecordPointsAwarded(string(kind), points)
}
