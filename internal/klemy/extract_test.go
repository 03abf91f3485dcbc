package klemy

import "testing"

func TestExtractTranslation(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
		ok   bool
	}{
		{
			name: "plain paragraph",
			html: `<p class="fs-3">مرحبا</p>`,
			want: "مرحبا",
			ok:   true,
		},
		{
			name: "extra classes and attributes",
			html: `<p id="out" class="fs-3 text-end" dir="rtl">مرحبا بيك</p>`,
			want: "مرحبا بيك",
			ok:   true,
		},
		{
			name: "nested tags stripped",
			html: `<p class="fs-3"><span>خلينا</span> <b>نجربو</b> حاجة</p>`,
			want: "خلينا نجربو حاجة",
			ok:   true,
		},
		{
			name: "whitespace collapsed",
			html: "<p class=\"fs-3\">\n  مرحبا \t بيك\n</p>",
			want: "مرحبا بيك",
			ok:   true,
		},
		{
			name: "multiline content",
			html: "<P CLASS=\"fs-3\">احكيلي\nشوية</P>",
			want: "احكيلي شوية",
			ok:   true,
		},
		{
			name: "missing paragraph",
			html: `<p class="fs-1">not it</p>`,
			ok:   false,
		},
		{
			name: "empty paragraph",
			html: `<p class="fs-3">   </p>`,
			ok:   false,
		},
		{
			name: "only nested tags",
			html: `<p class="fs-3"><br/></p>`,
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractTranslation(tt.html)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v (text %q)", tt.ok, ok, got)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
