package requesttime

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"studytrail/pkg/requestcontext"
	"studytrail/pkg/testutil"
)

func TestMiddlewareFixesRequestTime(t *testing.T) {
	var first, second time.Time
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		first = requestcontext.Now(r.Context())
		time.Sleep(time.Millisecond)
		second = requestcontext.Now(r.Context())
	})

	before := time.Now()
	testutil.DoRequest(Middleware(next), testutil.NewRequest(t, http.MethodGet, "/"))

	assert.Equal(t, first, second)
	assert.False(t, first.Before(before))
}
