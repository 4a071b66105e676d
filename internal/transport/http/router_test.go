package httptransport

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	accounthandler "studytrail/internal/account/handler"
	"studytrail/internal/account/identity"
	"studytrail/internal/account/models"
	accountservice "studytrail/internal/account/service"
	"studytrail/internal/account/store/preferences"
	"studytrail/internal/account/store/profile"
	"studytrail/internal/activity/facade"
	activityhandler "studytrail/internal/activity/handler"
	activitymetrics "studytrail/internal/activity/metrics"
	activityservice "studytrail/internal/activity/service"
	"studytrail/internal/activity/store/history"
	jwttoken "studytrail/internal/jwt_token"
	ratelimitmw "studytrail/internal/ratelimit/middleware"
	ratelimitmodels "studytrail/internal/ratelimit/models"
	"studytrail/internal/ratelimit/store/bucket"
	"studytrail/pkg/platform/middleware/auth"
	"studytrail/pkg/testutil"
)

type routerFixture struct {
	router http.Handler
	jwt    *jwttoken.JWTService
	logs   *bytes.Buffer
}

func newRouterFixture(t *testing.T, health ...HealthCheck) *routerFixture {
	t.Helper()
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(logs, nil))
	reg := prometheus.NewRegistry()

	recorder := activityservice.New(history.NewInMemory(),
		activityservice.WithLogger(logger),
		activityservice.WithMetrics(activitymetrics.New(reg)),
	)
	provisioner := accountservice.New(
		identity.NewInMemory(identity.WithMemoryCost(bcrypt.MinCost)),
		profile.NewInMemory(),
		preferences.NewInMemory(),
		recorder,
		accountservice.WithLogger(logger),
	)
	jwt := jwttoken.NewJWTService("router-test-key", "studytrail", "studytrail-api")

	router := NewRouter(Dependencies{
		Accounts:    accounthandler.New(provisioner, logger),
		Activity:    activityhandler.New(facade.New(recorder, facade.WithLogger(logger)), recorder, logger),
		RequireAuth: auth.RequireAuth(jwttoken.NewJWTServiceAdapter(jwt), logger),
		RateLimit: ratelimitmw.New(bucket.NewInMemory(), logger,
			ratelimitmw.WithPolicy(ratelimitmodels.ClassAccountCreate, ratelimitmodels.Policy{Limit: 3, Window: time.Hour}),
		),
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Health:  health,
		Logger:  logger,
	})
	return &routerFixture{router: router, jwt: jwt, logs: logs}
}

func (f *routerFixture) signUp(t *testing.T, email string) *models.Account {
	t.Helper()
	rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/accounts", map[string]string{
		"email": email, "password": "pw", "first_name": "Ann", "last_name": "Lee",
	}))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	return testutil.UnmarshalResponse[models.Account](t, rr)
}

func (f *routerFixture) bearer(t *testing.T, account *models.Account) string {
	t.Helper()
	token, err := f.jwt.GenerateAccessToken(account.ID, time.Hour)
	require.NoError(t, err)
	return token
}

func TestSignUpThenActivity(t *testing.T) {
	testutil.Given(t, "a freshly provisioned account", func(t *testing.T) {
		f := newRouterFixture(t)
		account := f.signUp(t, "a@x.com")
		token := f.bearer(t, account)

		testutil.When(t, "the user reports an activity and reads the trail", func(t *testing.T) {
			post := testutil.NewJSONRequest(t, http.MethodPost, "/me/activity", map[string]any{
				"action": "material_view", "resource_type": "learning_material", "resource_id": "m-1",
			})
			rr := testutil.DoRequest(f.router, testutil.WithBearer(post, token))
			testutil.AssertStatus(t, rr, http.StatusAccepted)

			list := testutil.WithBearer(testutil.NewRequest(t, http.MethodGet, "/me/activity"), token)
			rr = testutil.DoRequest(f.router, list)

			testutil.Then(t, "both the register and the reported event are listed", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				testutil.AssertJSONContains(t, rr, "count", float64(2))
				body := testutil.UnmarshalResponse[activityhandler.ListActivityResponse](t, rr)
				actions := []string{string(body.Events[0].Action), string(body.Events[1].Action)}
				assert.ElementsMatch(t, []string{"register", "material_view"}, actions)
			})
		})

		testutil.When(t, "the trail is read without a token", func(t *testing.T) {
			rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/me/activity"))

			testutil.Then(t, "it is unauthorized", func(t *testing.T) {
				testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
			})
		})
	})
}

func TestSignUpIsRateLimited(t *testing.T) {
	f := newRouterFixture(t)
	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		f.signUp(t, email)
	}

	rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/accounts", map[string]string{
		"email": "d@x.com", "password": "pw", "first_name": "D", "last_name": "X",
	}))

	testutil.AssertStatusAndError(t, rr, http.StatusTooManyRequests, "rate_limit_exceeded")
	assert.Equal(t, "0", rr.Header().Get("X-RateLimit-Remaining"))
}

func TestOperationalEndpoints(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		f := newRouterFixture(t, HealthCheck{Name: "postgres", Check: func(context.Context) error { return nil }})
		rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "status", "ok")
	})

	t.Run("dependency down", func(t *testing.T) {
		f := newRouterFixture(t, HealthCheck{Name: "redis", Check: func(context.Context) error { return errors.New("dial tcp: refused") }})
		rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
		testutil.AssertJSONContains(t, rr, "status", "degraded")
	})

	t.Run("metrics exposed", func(t *testing.T) {
		f := newRouterFixture(t)
		f.signUp(t, "m@x.com")
		rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/metrics"))
		testutil.AssertStatusOK(t, rr)
		assert.Contains(t, rr.Body.String(), "studytrail_activity_recorded_total")
	})

	t.Run("requests are access logged with a request id", func(t *testing.T) {
		f := newRouterFixture(t)
		req := testutil.NewRequest(t, http.MethodGet, "/healthz")
		req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		testutil.DoRequest(f.router, req)
		assert.Contains(t, f.logs.String(), `"msg":"http request"`)
		assert.Contains(t, f.logs.String(), `"browser":"Chrome"`)
		assert.NotContains(t, f.logs.String(), `"request_id":""`)
	})
}
