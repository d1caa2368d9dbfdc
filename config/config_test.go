package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

//nolint:gocyclo
func TestLoad(t *testing.T) {
	path := writeFile(t, "config.yaml", `project:
  name: office
  activities: data/activities.csv
  dependencies: /srv/dependencies.csv
  no_predecessor_token: none
analysis:
  targets: [165, 170, 175]
  critical_path: [A, B]
  degenerate: step
  risk_resource: workers
logging:
  level: debug
  backend: logrus
metrics:
  prometheus_port: ":9100"
  sinks:
    - type: "nop"
    - type: "sqlite"
      conf:
        path: runs.db
mqtt:
  enabled: true
  broker: "tcp://localhost:1883"
  client_id: "cli"
  topic_prefix: "site/pm"
  qos: 1
monitoring:
  sentry:
    dsn: "https://key@sentry.example.com/3"
    environment: staging
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"project.name", cfg.Project.Name, "office"},
		{"project.activities", cfg.Project.Activities, filepath.Join(filepath.Dir(path), "data", "activities.csv")},
		{"project.dependencies", cfg.Project.Dependencies, "/srv/dependencies.csv"},
		{"project.token", cfg.Project.NoPredecessorToken, "none"},
		{"analysis.targets", len(cfg.Analysis.Targets) == 3 && cfg.Analysis.Targets[2] == 175, true},
		{"analysis.critical_path", len(cfg.Analysis.CriticalPath), 2},
		{"analysis.degenerate", cfg.Analysis.Degenerate, DegenerateStep},
		{"analysis.risk_resource", cfg.Analysis.RiskResource, "workers"},
		{"analysis.chain_limit", cfg.Analysis.ChainLimit, 10},
		{"logging.level", cfg.Logging.Level, "debug"},
		{"logging.format", cfg.Logging.Format, "json"},
		{"logging.backend", cfg.Logging.Backend, "logrus"},
		{"metrics.port", cfg.Metrics.PrometheusPort, ":9100"},
		{"metrics.sinks", len(cfg.Metrics.Sinks) == 2 && cfg.Metrics.Sinks[1].Type == "sqlite", true},
		{"metrics.sqlite.path", cfg.Metrics.Sinks[1].Conf["path"], "runs.db"},
		{"mqtt.broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"mqtt.prefix", cfg.MQTT.TopicPrefix, "site/pm"},
		{"mqtt.qos", cfg.MQTT.QoS, byte(1)},
		{"monitoring.sentry.env", cfg.Monitoring.Sentry.Environment, "staging"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}

	files := cfg.Project.Files()
	assert.Equal(t, "none", files.Sentinel)
	assert.Equal(t, cfg.Project.Activities, files.Activities)
}

func TestLoadJSONDefaults(t *testing.T) {
	path := writeFile(t, "config.json", `{"project": {"file": "project.yaml"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "project.yaml"), cfg.Project.File)
	assert.Equal(t, "-", cfg.Project.NoPredecessorToken)
	assert.Equal(t, DegenerateError, cfg.Analysis.Degenerate)
	assert.Equal(t, []float64{0.5, 0.8, 0.95}, cfg.Analysis.ConfidenceLevels)
	assert.Equal(t, "pmsched", cfg.MQTT.TopicPrefix)
	assert.False(t, cfg.MQTT.Enabled)
	assert.Empty(t, cfg.Metrics.Sinks)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PMSCHED_ANALYSIS__DEGENERATE", "step")
	t.Setenv("PMSCHED_LOGGING__LEVEL", "warn")
	path := writeFile(t, "config.yaml", "project:\n  file: p.yaml\nanalysis:\n  degenerate: error\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DegenerateStep, cfg.Analysis.Degenerate)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadRemoteProject(t *testing.T) {
	path := writeFile(t, "config.yaml", `project:
  url: https://plans.example.com/office.yaml
  auth:
    client_id: pm
    client_secret: s3cret
    token_url: https://idp.example.com/token
    scopes: [plans.read]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://plans.example.com/office.yaml", cfg.Project.URL)
	assert.True(t, cfg.Project.Auth.Enabled())
	assert.Equal(t, []string{"plans.read"}, cfg.Project.Auth.Scopes)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PMSCHED_PROJECT__FILE", "p.yaml")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "p.yaml", cfg.Project.File)
	assert.NoError(t, cfg.Validate())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
	}{
		{"format", "config.toml", ""},
		{"no input", "config.yaml", "analysis:\n  degenerate: step\n"},
		{"both inputs", "config.yaml", "project:\n  file: p.yaml\n  activities: a.csv\n"},
		{"half tables", "config.yaml", "project:\n  activities: a.csv\n"},
		{"file and url", "config.yaml", "project:\n  file: p.yaml\n  url: http://plans/p.yaml\n"},
		{"auth without url", "config.yaml", "project:\n  file: p.yaml\n  auth:\n    token_url: http://idp/token\n"},
		{"policy", "config.yaml", "project:\n  file: p.yaml\nanalysis:\n  degenerate: maybe\n"},
		{"confidence", "config.yaml", "project:\n  file: p.yaml\nanalysis:\n  confidence_levels: [1.5]\n"},
		{"level", "config.yaml", "project:\n  file: p.yaml\nlogging:\n  level: chatty\n"},
		{"format value", "config.yaml", "project:\n  file: p.yaml\nlogging:\n  format: xml\n"},
		{"backend", "config.yaml", "project:\n  file: p.yaml\nlogging:\n  backend: log4j\n"},
		{"mqtt", "config.yaml", "project:\n  file: p.yaml\nmqtt:\n  enabled: true\n"},
		{"sentry", "config.yaml", "project:\n  file: p.yaml\nmonitoring:\n  sentry:\n    traces_sample_rate: 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.data))
			assert.Error(t, err)
		})
	}
}
