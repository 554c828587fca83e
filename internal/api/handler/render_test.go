package handler

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bethehero/web/internal/core/domain"
	"github.com/bethehero/web/internal/core/service"
)

func TestFormatBRL(t *testing.T) {
	cases := map[float64]string{
		120.5:   "R$ 120,50",
		1234.5:  "R$ 1.234,50",
		0:       "R$ 0,00",
		1000000: "R$ 1.000.000,00",
	}
	for in, want := range cases {
		if got := formatBRL(in); got != want {
			t.Fatalf("formatBRL(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderer_FormPageShowsErrorsAndValues(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	var buf bytes.Buffer
	err = r.Render(&buf, pageIncidentNew, formPage{
		page:   page{Title: "Novo caso", Toasts: []service.Toast{{Kind: service.ToastError, Message: "Erro ao cadastrar caso, tente novamente!"}}},
		Values: map[string]string{"title": "<b>Cão</b>"},
		Errors: domain.FieldErrors{"description": "A descrição é obrigatória"},
	}, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"A descrição é obrigatória",
		"toast-error",
		"Erro ao cadastrar caso, tente novamente!",
		"&lt;b&gt;Cão&lt;/b&gt;",
		"<title>Novo caso | Be The Hero</title>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q", want)
		}
	}
}

func TestRenderer_MoreFragment(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	var buf bytes.Buffer
	err = r.Render(&buf, fragmentMore, moreFragment{
		Items: []domain.Incident{{ID: "6", Title: "Gato", Description: "Gato preso na árvore", Value: 75}},
	}, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "<html") {
		t.Fatalf("fragment must not include the layout")
	}
	if !strings.Contains(out, `id="incident-6"`) || !strings.Contains(out, "R$ 75,00") {
		t.Fatalf("unexpected fragment: %s", out)
	}
}

func TestRenderer_IncidentsPageRearmsSentinel(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	var buf bytes.Buffer
	err = r.Render(&buf, pageIncidents, incidentsPage{
		page: page{Title: "Casos", NGOName: "APAD"},
		Feed: service.FeedSnapshot{
			Items:       []domain.Incident{{ID: "1", Title: "Cão", Description: "Cão atropelado", Value: 120}},
			CurrentPage: 1,
			State:       domain.FeedIdle,
		},
	}, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		`id="sentinel"`,
		"observer.unobserve(sentinel);",
		"observer.observe(sentinel);",
		"'stale'",
		"window.location.reload()",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected incidents page to contain %q", want)
		}
	}
	if i, j := strings.Index(out, "finally"), strings.Index(out, "observer.unobserve(sentinel);"); i < 0 || j < i {
		t.Fatalf("sentinel must be re-armed once a load settles")
	}
}

func TestRenderer_IncidentsPageWithoutSentinelAtEnd(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	var buf bytes.Buffer
	err = r.Render(&buf, pageIncidents, incidentsPage{
		page: page{Title: "Casos"},
		Feed: service.FeedSnapshot{ReachedEnd: true, State: domain.FeedExhausted},
	}, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(buf.String(), `id="sentinel"`) {
		t.Fatalf("an exhausted feed must not render the sentinel")
	}
}

func TestRenderer_UnknownView(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if err := r.Render(&bytes.Buffer{}, "nope", nil, nil); err == nil {
		t.Fatalf("expected error for unknown view")
	}
}
