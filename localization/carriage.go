package localization

import (
	"context"
	"net/http"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

type contextKey string

func (c contextKey) String() string {
	return "weave/localization/" + string(c)
}

const ctxKeyLanguage = contextKey("languageKey")

// ToContext adds the preferred language chain to the supplied context.
func ToContext(ctx context.Context, lang []string) context.Context {
	return context.WithValue(ctx, ctxKeyLanguage, lang)
}

// FromContext extracts the preferred language chain from the supplied
// context if any exists.
func FromContext(ctx context.Context) []string {
	languages, ok := ctx.Value(ctxKeyLanguage).([]string)
	if !ok {
		return nil
	}

	return languages
}

// ToMap stores the language chain in a header map for transports that
// carry string metadata.
func ToMap(m map[string]string, lang []string) map[string]string {
	m["lang"] = strings.Join(lang, ",")
	return m
}

// FromMap extracts the language chain from a header map.
func FromMap(m map[string]string) []string {
	lang, ok := m["lang"]
	if !ok {
		return nil
	}
	return strings.Split(lang, ",")
}

// HTTPMiddleware extracts language information from the request and sets
// it in the request context.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := ExtractLanguageFromHTTPRequest(r)

		ctx := ToContext(r.Context(), l)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UnaryInterceptor is a grpc interceptor that extracts the language
// supplied via metadata into the handler context.
func UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any,
		_ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		l := ExtractLanguageFromGrpcRequest(ctx)
		if l != nil {
			ctx = ToContext(ctx, l)
		}

		return handler(ctx, req)
	}
}

// StreamInterceptor extracts the language supplied via metadata for
// streaming handlers.
func StreamInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, _ *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx := ss.Context()
		l := ExtractLanguageFromGrpcRequest(ctx)
		if l == nil {
			return handler(srv, ss)
		}

		wrapped := &languageServerStream{ServerStream: ss, ctx: ToContext(ctx, l)}
		return handler(srv, wrapped)
	}
}

type languageServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *languageServerStream) Context() context.Context {
	return s.ctx
}

// ExtractLanguageFromHTTPRequest pulls the language preference from the
// "lang" form value followed by the Accept-Language header.
func ExtractLanguageFromHTTPRequest(req *http.Request) []string {
	lang := req.FormValue("lang")

	acceptedLang := ExtractLanguageFromHTTPHeader(req.Header)

	var languages []string
	if lang != "" {
		languages = append(languages, lang)
	}

	return append(languages, acceptedLang...)
}

// ExtractLanguageFromHTTPHeader splits the Accept-Language header into a
// language chain.
func ExtractLanguageFromHTTPHeader(header http.Header) []string {
	acceptLanguageHeader := header.Get("Accept-Language")
	return strings.Split(acceptLanguageHeader, ",")
}

// ExtractLanguageFromGrpcRequest reads the accept-language metadata from
// an incoming grpc context.
func ExtractLanguageFromGrpcRequest(ctx context.Context) []string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return []string{}
	}

	header, ok := md["accept-language"]
	if !ok || len(header) == 0 {
		return []string{}
	}
	acceptLangHeader := header[0]
	return strings.Split(acceptLangHeader, ",")
}
