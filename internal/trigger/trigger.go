// Package trigger serves the HTTP endpoint that requests a sync by publishing a
// SyncRequest to Pub/Sub.
package trigger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/matheuscscp/splitynab/config"
	"github.com/matheuscscp/splitynab/logging"
	"github.com/matheuscscp/splitynab/models"
	"github.com/matheuscscp/splitynab/services/events"
	"github.com/matheuscscp/splitynab/services/secrets"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

type (
	handler struct {
		conf          *config.Trigger
		eventsService events.Service
	}

	controller struct {
		*handler
		w http.ResponseWriter
		r *http.Request
	}
)

const (
	httpHeaderAuthorization = "Authorization"
	httpHeaderContentType   = "Content-Type"
)

var (
	errInvalidRealm     = errors.New("invalid authentication realm")
	errInvalidToken     = errors.New("invalid token")
	errMissingJWTSecret = errors.New("jwt secret is not configured")

	jwtSigningMethod = jwt.SigningMethodHS256
)

// LoadConfig loads the trigger config and resolves the jwt secret.
func LoadConfig(ctx context.Context) (*config.Trigger, error) {
	var conf config.Trigger
	if err := config.Load(&conf); err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	logging.SetLevel(conf.LogLevel)

	err := secrets.Resolve(ctx, secrets.NewService, secrets.Ref{ID: conf.JWTSecretID, Dst: &conf.JWTSecret})
	if err != nil {
		return nil, fmt.Errorf("error reading jwt secret: %w", err)
	}
	if conf.JWTSecret == "" {
		return nil, errMissingJWTSecret
	}
	return &conf, nil
}

// Run serves one request of the HTTP Cloud Function. Setup errors are answered with
// 500 so the instance keeps serving.
func Run(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	conf, err := LoadConfig(ctx)
	if err != nil {
		replyError(w, http.StatusInternalServerError, err)
		return
	}

	eventsService, err := events.NewService(ctx, conf.ProjectID)
	if err != nil {
		replyError(w, http.StatusInternalServerError, fmt.Errorf("error creating events service: %w", err))
		return
	}
	defer eventsService.Close()

	NewHandler(conf, eventsService).ServeHTTP(w, r)
}

// NewHandler ...
func NewHandler(conf *config.Trigger, eventsService events.Service) http.Handler {
	return &handler{
		conf:          conf,
		eventsService: eventsService,
	}
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	(&controller{handler: h, w: w, r: r}).handleRequest()
}

// IssueToken signs a token accepted by the handler.
func IssueToken(secret, subject string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwtSigningMethod, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(ttl).Unix(),
	})
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("error signing jwt token: %w", err)
	}
	return s, nil
}

func (c *controller) handleRequest() {
	if c.r.Method != http.MethodPost {
		c.replyStatusCode(http.StatusMethodNotAllowed)
		return
	}

	subject, err := c.checkAuthentication()
	if err != nil {
		logrus.Warnf("invalid authentication: %v", err)
		c.replyStatusCode(http.StatusUnauthorized)
		return
	}

	req, err := c.readSyncRequest()
	if err != nil {
		c.replyError(http.StatusBadRequest, err)
		return
	}

	serverID, err := c.eventsService.PublishJSON(c.r.Context(), c.conf.SyncTopicID, req)
	if err != nil {
		if errors.Is(err, events.ErrServiceNotConfigured) {
			logrus.Error("cannot publish sync request, events service is not configured")
			c.replyStatusCode(http.StatusServiceUnavailable)
			return
		}
		c.replyError(http.StatusInternalServerError, fmt.Errorf("error publishing sync request: %w", err))
		return
	}
	logrus.WithField("sub", subject).Infof("sync request published with serverID=%s", serverID)

	c.w.Header().Set(httpHeaderContentType, "application/json")
	c.w.WriteHeader(http.StatusCreated)
	c.writeHTTP(`{"message_id":%q}`, serverID)
}

func (c *controller) checkAuthentication() (string, error) {
	const realm = "Bearer "
	authn := c.r.Header.Get(httpHeaderAuthorization)
	if !strings.HasPrefix(authn, realm) {
		return "", errInvalidRealm
	}
	tokenString := authn[len(realm):]

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(c.conf.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwtSigningMethod.Name}))
	if err != nil {
		return "", fmt.Errorf("error parsing jwt token: %w", err)
	}
	if !token.Valid {
		return "", errInvalidToken
	}
	sub, err := token.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("error getting subject from token: %w", err)
	}
	return sub, nil
}

func (c *controller) readSyncRequest() (*models.SyncRequest, error) {
	var req models.SyncRequest
	if err := json.NewDecoder(c.r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("error unmarshaling payload: %w", err)
	}
	for _, d := range []string{req.DatedAfter, req.DatedBefore} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(models.DateLayout, d); err != nil {
			return nil, fmt.Errorf("invalid date '%s', want YYYY-MM-DD", d)
		}
	}
	return &req, nil
}

func (c *controller) writeHTTP(format string, args ...interface{}) {
	writeHTTP(c.w, format, args...)
}

func (c *controller) replyStatusCode(code int) {
	c.w.WriteHeader(code)
	c.writeHTTP("%s", http.StatusText(code))
}

func (c *controller) replyError(code int, err error) {
	replyError(c.w, code, err)
}

func writeHTTP(w http.ResponseWriter, format string, args ...interface{}) {
	resp := fmt.Sprintf(format, args...)
	if _, err := w.Write([]byte(resp)); err != nil {
		logrus.Errorf("error writing response: %v", err)
	}
}

func replyError(w http.ResponseWriter, code int, err error) {
	logrus.WithError(err).Errorf("HTTP status code %d", code)
	w.WriteHeader(code)
	writeHTTP(w, "%s", err.Error())
}
