package blob

import "testing"

func TestObjectURL(t *testing.T) {
	for _, tc := range []struct {
		name  string
		store S3Store
		key   string
		want  string
	}{
		{
			name:  "VirtualHosted",
			store: S3Store{bucket: "trellis-uploads", region: "us-east-1"},
			key:   "screenshots/bug-1.png",
			want:  "https://trellis-uploads.s3.us-east-1.amazonaws.com/screenshots/bug-1.png",
		},
		{
			name:  "CustomEndpoint",
			store: S3Store{bucket: "trellis-uploads", endpoint: "http://localhost:9000"},
			key:   "screenshots/bug-1.png",
			want:  "http://localhost:9000/trellis-uploads/screenshots/bug-1.png",
		},
		{
			name:  "CustomEndpointTrailingSlash",
			store: S3Store{bucket: "trellis-uploads", endpoint: "http://localhost:9000/"},
			key:   "screenshots/bug-1.png",
			want:  "http://localhost:9000/trellis-uploads/screenshots/bug-1.png",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.store.objectURL(tc.key); got != tc.want {
				t.Errorf("objectURL(%q) = %q, want %q", tc.key, got, tc.want)
			}
		})
	}
}
