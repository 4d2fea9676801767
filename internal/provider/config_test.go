package provider

import "testing"

func validConfig() Config {
	return Config{
		Format:         "bestaudio/best",
		OutputTemplate: "/tmp/%(title)s.%(ext)s",
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid minimal", func(c *Config) {}, false},
		{"empty format", func(c *Config) { c.Format = "" }, true},
		{"empty template", func(c *Config) { c.OutputTemplate = "" }, true},
		{"ambiguous playlist mode", func(c *Config) { c.YesPlaylist = true; c.NoPlaylist = true }, true},
		{"full pipeline in order", func(c *Config) {
			c.Postprocessors = []Postprocessor{
				{Key: PPExtractAudio, Codec: "mp3", Quality: "0"},
				{Key: PPConvertThumbnails, Format: "jpg"},
				{Key: PPEmbedThumbnail},
				{Key: PPEmbedMetadata},
			}
		}, false},
		{"metadata before extraction", func(c *Config) {
			c.Postprocessors = []Postprocessor{
				{Key: PPEmbedMetadata},
				{Key: PPExtractAudio, Codec: "mp3"},
			}
		}, true},
		{"embed without order violation", func(c *Config) {
			c.Postprocessors = []Postprocessor{
				{Key: PPEmbedThumbnail},
				{Key: PPConvertThumbnails, Format: "jpg"},
			}
		}, true},
		{"duplicate step", func(c *Config) {
			c.Postprocessors = []Postprocessor{
				{Key: PPEmbedMetadata},
				{Key: PPEmbedMetadata},
			}
		}, true},
		{"unknown step", func(c *Config) {
			c.Postprocessors = []Postprocessor{{Key: "Transmogrify"}}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHasPostprocessor(t *testing.T) {
	cfg := validConfig()
	cfg.Postprocessors = []Postprocessor{{Key: PPExtractAudio}}

	if !cfg.HasPostprocessor(PPExtractAudio) {
		t.Error("Expected ExtractAudio to be present")
	}
	if cfg.HasPostprocessor(PPEmbedMetadata) {
		t.Error("Did not expect Metadata to be present")
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Plain Title", "Plain Title"},
		{`a<b>c:d"e/f\g|h?i*j`, "a_b_c_d_e_f_g_h_i_j"},
		{"", ""},
		{"unicode — тест", "unicode — тест"},
	}

	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
