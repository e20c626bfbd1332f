// Package bind decodes an HTTP request body into a struct and validates it.
//
// The checkout form posts urlencoded fields (the browser path) while API
// clients send JSON; Request picks the decoder from the Content-Type so
// controllers see one typed submission either way.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/Kiko4ko1/magnetsbg-store/pkg/validate"
)

// maxBodyBytes caps request bodies; nothing in a checkout needs more.
const maxBodyBytes = 1 << 20 // 1 MB

// Request decodes r into dest (JSON or form by Content-Type) and validates.
// Returns (errs, nil) on validation failures, (nil, err) on a malformed body.
func Request(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		return JSON(r, dest)
	}
	return Form(r, dest)
}

// JSON decodes r.Body as JSON into dest and runs validation.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err = dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	errs = validate.Struct(dest)
	if validate.HasErrors(errs) {
		return errs, nil
	}

	return nil, nil
}

// Form parses an urlencoded body into dest by matching form keys against
// json struct tags, then runs validation.
func Form(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)

	if err = r.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form body: %w", err)
	}

	if err = fillFromValues(dest, r.PostForm); err != nil {
		return nil, err
	}

	errs = validate.Struct(dest)
	if validate.HasErrors(errs) {
		return errs, nil
	}

	return nil, nil
}

func fillFromValues(dest interface{}, values map[string][]string) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return errors.New("bind: dest must be a pointer to struct")
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		name := jsonName(field)
		if name == "" {
			continue
		}

		raw, ok := values[name]
		if !ok || len(raw) == 0 {
			continue
		}
		value := raw[0]

		fv := rv.Field(i)
		if !fv.CanSet() {
			continue
		}

		switch fv.Kind() {
		case reflect.String:
			fv.SetString(value)
		case reflect.Float32, reflect.Float64:
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("bind: field %s: %w", name, err)
			}
			fv.SetFloat(f)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("bind: field %s: %w", name, err)
			}
			fv.SetInt(n)
		case reflect.Bool:
			fv.SetBool(value == "true" || value == "1" || value == "on")
		}
	}

	return nil
}

func jsonName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if name == "" {
		return strings.ToLower(f.Name)
	}
	if name == "-" {
		return ""
	}
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	return name
}
