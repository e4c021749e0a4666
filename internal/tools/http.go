package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kazz187/taskdigest/pkg/cerr"
)

// Mount adds one route per tool under r, e.g. GET /get_categories.
func Mount(r chi.Router, s *Service) {
	for _, t := range Tools(s) {
		r.Method(t.Method, "/"+t.Name, t.serve)
	}
}

// TextResult wraps rendered digests in REST responses.
type TextResult struct {
	Text string `json:"text" yaml:"text"`
}

func httpHandler[In any](call func(context.Context, In) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var in In
		if err := bindRequest(r, &in); err != nil {
			cerr.SetNewJSONError(ctx, cerr.InvalidArgument, err.Error(), err)
			return
		}
		out, err := call(ctx, in)
		if err != nil {
			cerr.SetJSONError(ctx, err)
			return
		}
		if s, ok := out.(string); ok {
			out = TextResult{Text: s}
		}
		cerr.SetJSONResponse(ctx, out)
	}
}

// bindRequest fills dst from a JSON body, then from query parameters, which
// take precedence.
func bindRequest(r *http.Request, dst any) error {
	if r.Body != nil && r.ContentLength != 0 {
		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if mediaType == "application/json" {
			if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst); err != nil && err != io.EOF {
				return fmt.Errorf("invalid request body: %w", err)
			}
		}
	}
	return bindQuery(r.URL.Query(), dst)
}

// bindQuery sets the fields of the struct pointed to by dst from query
// values, matching on the json tag name. It supports string, integer and
// pointer-to-integer fields.
func bindQuery(values url.Values, dst any) error {
	v := reflect.ValueOf(dst).Elem()
	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		raw, ok := values[name]
		if !ok || len(raw) == 0 {
			continue
		}
		if err := setField(v.Field(i), raw[0]); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	return nil
}

func setField(f reflect.Value, raw string) error {
	switch f.Kind() {
	case reflect.String:
		f.SetString(raw)
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, f.Type().Bits())
		if err != nil {
			return fmt.Errorf("%q is not an integer", raw)
		}
		f.SetInt(n)
	case reflect.Pointer:
		elem := reflect.New(f.Type().Elem())
		if err := setField(elem.Elem(), raw); err != nil {
			return err
		}
		f.Set(elem)
	default:
		return fmt.Errorf("unsupported field kind %s", f.Kind())
	}
	return nil
}
