package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPartition(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("unstructured-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.FormValue("max_characters"); got != "1500" {
			t.Errorf("max_characters = %q, want 1500", got)
		}
		if got := r.FormValue("chunking_strategy"); got != "by_title" {
			t.Errorf("chunking_strategy = %q, want by_title", got)
		}
		if got := r.FormValue("strategy"); got != "fast" {
			t.Errorf("strategy = %q, want fast", got)
		}
		file, header, err := r.FormFile("files")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "report.pdf" {
			t.Errorf("filename = %q, want report.pdf", header.Filename)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"text": "first element", "metadata": {"page_number": 1}},
			{"text": "second element", "metadata": {"page_number": 2}}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	elements, err := client.Partition(context.Background(), "report.pdf", strings.NewReader("%PDF-1.4 fake"))
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}

	if len(elements) != 2 {
		t.Fatalf("len(elements) = %d, want 2", len(elements))
	}
	if elements[0].Text != "first element" {
		t.Errorf("elements[0].Text = %q", elements[0].Text)
	}
	if page, ok := elements[1].Metadata["page_number"].(float64); !ok || page != 2 {
		t.Errorf("elements[1] page_number = %v", elements[1].Metadata["page_number"])
	}
}

func TestPartitionErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail": "unsupported file type"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	_, err := client.Partition(context.Background(), "broken.xyz", strings.NewReader("junk"))
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
	if !strings.Contains(err.Error(), "422") {
		t.Errorf("error should carry status code, got %v", err)
	}
}
