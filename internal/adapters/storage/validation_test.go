package storage

import "testing"

func TestValidateUpload(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		size        int64
		wantErr     bool
	}{
		{"csv with charset", "text/csv; charset=utf-8", 10, false},
		{"image rejected", "image/png", 10, true},
		{"empty file", "text/csv", 0, true},
		{"too large", "text/csv", 101, true},
	}
	for _, tc := range cases {
		err := validateUpload(tc.contentType, tc.size, 100)
		if (err != nil) != tc.wantErr {
			t.Fatalf("%s: expected error=%v, got %v", tc.name, tc.wantErr, err)
		}
	}
}
