package attachment

import (
	"errors"
	"testing"
)

func TestAddAndList(t *testing.T) {
	r := NewRegistry()
	att, err := r.Add("mock.png", KindImage, 2048)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if att.ID == "" {
		t.Fatal("expected a generated id")
	}
	if att.Size != "2.0KB" {
		t.Fatalf("size = %q, want 2.0KB", att.Size)
	}
	if _, err := r.Add("src.zip", KindZip, 10240); err != nil {
		t.Fatalf("Add: %v", err)
	}

	list := r.List()
	if len(list) != 2 || list[0].Name != "mock.png" || list[1].Name != "src.zip" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestAdd_Rejections(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Add("  ", KindImage, 1); err == nil {
		t.Fatal("expected error for blank name")
	}
	if _, err := r.Add("a.bin", Kind("binary"), 1); err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if r.Len() != 0 {
		t.Fatal("rejected adds must not register")
	}
}

func TestRemove(t *testing.T) {
	r := NewRegistry()
	att, _ := r.Add("mock.png", KindImage, 1024)
	if err := r.Remove(att.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if r.Len() != 0 {
		t.Fatal("expected empty registry")
	}
	if err := r.Remove(att.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClear(t *testing.T) {
	r := NewRegistry()
	r.Add("a.png", KindImage, 1)
	r.Add("b", KindFolder, 1)
	r.Clear()
	if r.Len() != 0 {
		t.Fatal("expected empty registry after Clear")
	}
}

func TestDescribe(t *testing.T) {
	a := Attachment{Name: "mock.png", Kind: KindImage}
	if got := a.Describe(); got != "image named 'mock.png'" {
		t.Fatalf("Describe = %q", got)
	}
}
