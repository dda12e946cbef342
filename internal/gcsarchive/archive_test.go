package gcsarchive

import "testing"

func TestParseURI(t *testing.T) {
	tests := []struct {
		name       string
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{
			name:       "valid URI",
			uri:        "gs://my-bucket/imports/2025/receipt.jpg",
			wantBucket: "my-bucket",
			wantObject: "imports/2025/receipt.jpg",
		},
		{
			name:    "missing scheme",
			uri:     "my-bucket/receipt.jpg",
			wantErr: true,
		},
		{
			name:    "bucket only",
			uri:     "gs://my-bucket",
			wantErr: true,
		},
		{
			name:    "empty object path",
			uri:     "gs://my-bucket/",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, object, err := ParseURI(tt.uri)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.uri)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if bucket != tt.wantBucket || object != tt.wantObject {
				t.Errorf("got (%q, %q), want (%q, %q)", bucket, object, tt.wantBucket, tt.wantObject)
			}
		})
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("gs://bucket/imports/receipt.jpg"); got != "receipt.jpg" {
		t.Errorf("got %q, want receipt.jpg", got)
	}
	if got := Filename("gs://bucket"); got != "bucket" {
		t.Errorf("got %q, want bucket", got)
	}
}
