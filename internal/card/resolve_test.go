// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package card

import "testing"

func testRecord() Record {
	return Record{
		ID: "stu-1",
		Fields: map[string]string{
			"name":               "John Doe",
			"registrationNumber": "REG-0042",
			"class":              "Grade 5 West",
			"academicYear":       "2026",
		},
		PhotoRef: "photos/stu-1_card.jpg",
	}
}

func TestResolveFieldBinding(t *testing.T) {
	el := Element{Kind: KindText, Binding: Binding{Field: "name"}}

	c, err := Resolve(0, el, testRecord(), RenderContext{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if c.Text != "John Doe" {
		t.Errorf("text: got %q, want %q", c.Text, "John Doe")
	}
	if c.Empty {
		t.Error("content should not be empty")
	}
}

func TestResolveFallbackLaw(t *testing.T) {
	rec := testRecord()

	tests := []struct {
		name     string
		binding  Binding
		wantText string
		wantEmpty bool
	}{
		{
			name:     "field wins over literal when both present",
			binding:  Binding{Field: "name", Value: "Fallback"},
			wantText: "John Doe",
		},
		{
			name:     "missing field falls back to literal",
			binding:  Binding{Field: "middleName", Value: "Fallback"},
			wantText: "Fallback",
		},
		{
			name:      "missing field with no literal is empty, not an error",
			binding:   Binding{Field: "middleName"},
			wantEmpty: true,
		},
		{
			name:     "empty field value is treated as missing",
			binding:  Binding{Field: "blank", Value: "Fallback"},
			wantText: "Fallback",
		},
		{
			name:     "literal only",
			binding:  Binding{Value: "Static"},
			wantText: "Static",
		},
	}

	rec.Fields["blank"] = ""

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := Element{Kind: KindText, Binding: tt.binding}
			c, err := Resolve(0, el, rec, RenderContext{})
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if c.Empty != tt.wantEmpty {
				t.Errorf("empty: got %v, want %v", c.Empty, tt.wantEmpty)
			}
			if c.Text != tt.wantText {
				t.Errorf("text: got %q, want %q", c.Text, tt.wantText)
			}
		})
	}
}

func TestResolveCaseSensitive(t *testing.T) {
	el := Element{Kind: KindText, Binding: Binding{Field: "Name"}}

	c, err := Resolve(0, el, testRecord(), RenderContext{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !c.Empty {
		t.Error("lookup must be case-sensitive: \"Name\" should not match \"name\"")
	}
}

func TestResolveReservedImageFields(t *testing.T) {
	rec := testRecord()
	ctx := RenderContext{LogoRef: "logos/school-1.png"}

	logo := Element{Kind: KindImage, Binding: Binding{Field: FieldSchoolLogo}}
	c, err := Resolve(0, logo, rec, ctx)
	if err != nil {
		t.Fatalf("Resolve logo: %v", err)
	}
	if c.ImageRef != "logos/school-1.png" {
		t.Errorf("logo ref: got %q", c.ImageRef)
	}

	photo := Element{Kind: KindImage, Binding: Binding{Field: FieldProfileImage}}
	c, err = Resolve(1, photo, rec, ctx)
	if err != nil {
		t.Fatalf("Resolve photo: %v", err)
	}
	if c.ImageRef != rec.PhotoRef {
		t.Errorf("photo ref: got %q, want %q", c.ImageRef, rec.PhotoRef)
	}

	// Reserved names never read the flat field map.
	rec.Fields[FieldProfileImage] = "fields-should-be-ignored"
	rec.PhotoRef = ""
	c, err = Resolve(1, photo, rec, ctx)
	if err != nil {
		t.Fatalf("Resolve photo without ref: %v", err)
	}
	if !c.Empty {
		t.Errorf("expected empty content, got ref %q", c.ImageRef)
	}
}

func TestResolveQRCode(t *testing.T) {
	rec := testRecord()
	el := Element{Kind: KindQRCode}

	ctx := RenderContext{
		QRPayload: func(r Record) string { return "https://example.org/v/" + r.ID },
	}
	c, err := Resolve(0, el, rec, ctx)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if c.QRPayload != "https://example.org/v/stu-1" {
		t.Errorf("payload: got %q", c.QRPayload)
	}

	// Nil generator falls back to the default card URI.
	c, err = Resolve(0, el, rec, RenderContext{})
	if err != nil {
		t.Fatalf("Resolve default: %v", err)
	}
	if c.QRPayload != "card://student/stu-1" {
		t.Errorf("default payload: got %q", c.QRPayload)
	}
}

func TestResolveUnknownKind(t *testing.T) {
	el := Element{Kind: Kind("video"), Binding: Binding{Value: "x"}}
	_, err := Resolve(3, el, testRecord(), RenderContext{})
	if err == nil {
		t.Fatal("expected resolution error for unknown kind")
	}
	re, ok := err.(ResolutionError)
	if !ok {
		t.Fatalf("expected ResolutionError, got %T", err)
	}
	if re.ElementIndex != 3 {
		t.Errorf("element index: got %d, want 3", re.ElementIndex)
	}
}
