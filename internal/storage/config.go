package storage

type Config struct {
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Ollama struct {
		BaseURL string `yaml:"base_url"`
		Model   string `yaml:"model"`
	} `yaml:"ollama"`

	Features struct {
		AIAnalysis bool `yaml:"ai_analysis"`
	} `yaml:"features"`

	Dashboard struct {
		RecentShareDays int `yaml:"recent_share_days"`
	} `yaml:"dashboard"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Database.Path = "./outreach.db"
	cfg.Server.Addr = ":8080"
	cfg.Ollama.BaseURL = "http://localhost:11434"
	cfg.Ollama.Model = "llama3"
	cfg.Features.AIAnalysis = false
	cfg.Dashboard.RecentShareDays = 7
	return cfg
}
