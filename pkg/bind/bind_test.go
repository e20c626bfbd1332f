package bind_test

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Kiko4ko1/magnetsbg-store/pkg/bind"
)

type payload struct {
	Name  string  `json:"name" validate:"required"`
	Email string  `json:"email" validate:"required,email"`
	Total float64 `json:"total" validate:"gt=0"`
	Count int     `json:"count"`
	Flag  bool    `json:"flag"`
}

func TestJSONBinding(t *testing.T) {
	body := `{"name":"Иван","email":"ivan@example.com","total":19.98,"count":2,"flag":true}`
	r := httptest.NewRequest("POST", "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	var p payload
	errs, err := bind.Request(r, &p)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if len(errs) > 0 {
		t.Fatalf("unexpected validation errors: %v", errs)
	}
	if p.Name != "Иван" || p.Total != 19.98 || p.Count != 2 || !p.Flag {
		t.Errorf("unexpected payload: %+v", p)
	}
}

func TestJSONMalformed(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader("{broken"))
	r.Header.Set("Content-Type", "application/json")

	var p payload
	if _, err := bind.Request(r, &p); err == nil {
		t.Error("expected decode error")
	}
}

func TestFormBinding(t *testing.T) {
	form := url.Values{
		"name":  {"Иван"},
		"email": {"ivan@example.com"},
		"total": {"19.98"},
		"count": {"3"},
		"flag":  {"true"},
	}
	r := httptest.NewRequest("POST", "/", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var p payload
	errs, err := bind.Request(r, &p)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if len(errs) > 0 {
		t.Fatalf("unexpected validation errors: %v", errs)
	}
	if p.Name != "Иван" || p.Total != 19.98 || p.Count != 3 || !p.Flag {
		t.Errorf("unexpected payload: %+v", p)
	}
}

func TestFormValidation(t *testing.T) {
	form := url.Values{
		"name":  {"Иван"},
		"email": {"not-an-email"},
		"total": {"0"},
	}
	r := httptest.NewRequest("POST", "/", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var p payload
	errs, err := bind.Request(r, &p)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if _, ok := errs["email"]; !ok {
		t.Error("expected email error")
	}
	if _, ok := errs["total"]; !ok {
		t.Error("expected total error")
	}
}

func TestFormIgnoresUnknownFields(t *testing.T) {
	form := url.Values{
		"name":    {"Иван"},
		"email":   {"ivan@example.com"},
		"total":   {"5"},
		"qty_p1":  {"2"},
		"unknown": {"x"},
	}
	r := httptest.NewRequest("POST", "/", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var p payload
	errs, err := bind.Request(r, &p)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if len(errs) > 0 {
		t.Fatalf("unexpected validation errors: %v", errs)
	}
}
