package model

import "testing"

func TestGetETAString(t *testing.T) {
	tests := []struct {
		name   string
		etaSec int
		want   string
	}{
		{"unknown", -1, "—"},
		{"zero", 0, "—"},
		{"seconds only", 45, "00:45"},
		{"minutes and seconds", 125, "02:05"},
		{"with hours", 3725, "01:02:05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &DownloadTask{ETASec: tt.etaSec}
			if got := task.GetETAString(); got != tt.want {
				t.Errorf("GetETAString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetDisplayTitle(t *testing.T) {
	tests := []struct {
		name string
		task DownloadTask
		want string
	}{
		{
			name: "playlist title wins",
			task: DownloadTask{PlaylistTitle: "Mix", Title: "Song", URL: "https://example.com"},
			want: "Mix",
		},
		{
			name: "title preferred over path",
			task: DownloadTask{Title: "Song", OutputPath: "/tmp/file.mp3"},
			want: "Song",
		},
		{
			name: "url-shaped title skipped",
			task: DownloadTask{Title: "https://youtu.be/x", OutputPath: "/tmp/file.mp3"},
			want: "file",
		},
		{
			name: "falls back to url",
			task: DownloadTask{URL: "https://youtu.be/x"},
			want: "https://youtu.be/x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.GetDisplayTitle(); got != tt.want {
				t.Errorf("GetDisplayTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSnapshotCounts(t *testing.T) {
	s := Snapshot{Total: 10, Downloaded: 4, Failed: 1, Skipped: 2}
	if s.Completed() != 7 {
		t.Errorf("Completed() = %d, want 7", s.Completed())
	}
	if s.Remaining() != 3 {
		t.Errorf("Remaining() = %d, want 3", s.Remaining())
	}

	unknown := Snapshot{Downloaded: 3}
	if unknown.Remaining() != 0 {
		t.Errorf("Remaining() with unknown total = %d, want 0", unknown.Remaining())
	}

	over := Snapshot{Total: 2, Downloaded: 3}
	if over.Remaining() != 0 {
		t.Errorf("Remaining() must not go negative, got %d", over.Remaining())
	}
}
