package localization_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/kwanza/weave/localization"
)

func TestLanguageContextRoundTrip(t *testing.T) {
	ctx := localization.ToContext(context.Background(), []string{"en", "sw"})
	require.Equal(t, []string{"en", "sw"}, localization.FromContext(ctx))

	require.Nil(t, localization.FromContext(context.Background()))
}

func TestLanguageMapRoundTrip(t *testing.T) {
	m := localization.ToMap(map[string]string{"world": "data"}, []string{"en", "sw"})
	require.Equal(t, []string{"en", "sw"}, localization.FromMap(m))

	require.Nil(t, localization.FromMap(map[string]string{}))
}

func TestHTTPMiddlewareExtractsLanguage(t *testing.T) {
	testCases := []struct {
		name         string
		acceptLang   string
		expectedLang string
	}{
		{
			name:         "accept-language header",
			acceptLang:   "en-US,en;q=0.9",
			expectedLang: "en",
		},
		{
			name:         "swahili accept-language",
			acceptLang:   "sw",
			expectedLang: "sw",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := localization.HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				lang := localization.FromContext(r.Context())
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(strings.Join(lang, ",")))
			}))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Accept-Language", tc.acceptLang)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			require.Contains(t, w.Body.String(), tc.expectedLang)
		})
	}
}

func TestHTTPMiddlewarePrefersLangFormValue(t *testing.T) {
	handler := localization.HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := localization.FromContext(r.Context())
		_, _ = w.Write([]byte(strings.Join(lang, ",")))
	}))

	req := httptest.NewRequest(http.MethodGet, "/test?lang=sw", nil)
	req.Header.Set("Accept-Language", "en")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.True(t, strings.HasPrefix(w.Body.String(), "sw"))
}

func TestUnaryInterceptorExtractsLanguage(t *testing.T) {
	interceptor := localization.UnaryInterceptor()
	handler := func(ctx context.Context, _ any) (any, error) {
		return strings.Join(localization.FromContext(ctx), ","), nil
	}

	md := metadata.New(map[string]string{"accept-language": "sw"})
	ctx := metadata.NewIncomingContext(context.Background(), md)

	result, err := interceptor(ctx, nil, nil, handler)
	require.NoError(t, err)
	require.Contains(t, result.(string), "sw")
}

// mockServerStream carries a custom context for stream interceptor tests.
type mockServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (m *mockServerStream) Context() context.Context {
	return m.ctx
}

func TestStreamInterceptorExtractsLanguage(t *testing.T) {
	interceptor := localization.StreamInterceptor()

	md := metadata.New(map[string]string{"accept-language": "en"})
	stream := &mockServerStream{ctx: metadata.NewIncomingContext(context.Background(), md)}

	var seen []string
	err := interceptor(nil, stream, nil, func(_ any, ss grpc.ServerStream) error {
		seen = localization.FromContext(ss.Context())
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"en"}, seen)
}

func TestExtractLanguageFromGrpcRequestWithoutMetadata(t *testing.T) {
	require.Empty(t, localization.ExtractLanguageFromGrpcRequest(context.Background()))
}
