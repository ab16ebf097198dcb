package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/rubiojr/armory/pkg/dataset"
	"github.com/rubiojr/armory/pkg/debounce"
	"github.com/rubiojr/armory/pkg/index"
)

//go:embed config.toml.sample
var configTemplate string

type Config struct {
	DefaultTab string         `toml:"default_tab" validate:"required"`
	Watch      bool           `toml:"watch"`
	Search     SearchConfig   `toml:"search"`
	Web        WebConfig      `toml:"web"`
	Tabs       map[string]Tab `toml:"tabs" validate:"required,min=1,dive"`
}

type SearchConfig struct {
	// Debounce is the quiet period after a keystroke before searching.
	Debounce      Duration `toml:"debounce"`
	DefaultFields []string `toml:"default_fields" validate:"dive,search_field"`
	// Toast is how long copy notifications stay visible.
	Toast Duration `toml:"toast"`
}

type WebConfig struct {
	Host string `toml:"host" validate:"required"`
	Port int    `toml:"port" validate:"min=1,max=65535"`
}

// Tab describes one selectable dataset.
type Tab struct {
	Label       string `toml:"label"`
	Path        string `toml:"path" validate:"required"`
	Type        string `toml:"type" validate:"omitempty,oneof=list dictionary"`
	ShowFilters *bool  `toml:"show_filters,omitempty"`
	Order       int    `toml:"order"`
}

// Mode returns the dataset mode of the tab.
func (t Tab) Mode() dataset.Mode {
	if t.Type == string(dataset.ModeDictionary) {
		return dataset.ModeDictionary
	}
	return dataset.ModeList
}

// Filters reports whether field toggles are shown for the tab. Unless set
// explicitly, list tabs show them and dictionary tabs don't.
func (t Tab) Filters() bool {
	if t.ShowFilters != nil {
		return *t.ShowFilters
	}
	return t.Mode() == dataset.ModeList
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

const (
	DefaultToast = 1400 * time.Millisecond
	DefaultHost  = "localhost"
	DefaultPort  = 8080
)

func GetDefaultConfig() *Config {
	yes, no := true, false
	return &Config{
		DefaultTab: "weapons",
		Search: SearchConfig{
			Debounce:      Duration{debounce.DefaultDelay},
			DefaultFields: append([]string(nil), index.DefaultFields...),
			Toast:         Duration{DefaultToast},
		},
		Web: WebConfig{Host: DefaultHost, Port: DefaultPort},
		Tabs: map[string]Tab{
			"weapons": {Label: "Weapons", Path: "list.json", Type: string(dataset.ModeList), ShowFilters: &yes, Order: 1},
			"index":   {Label: "Index", Path: "index.json", Type: string(dataset.ModeDictionary), ShowFilters: &no, Order: 2},
		},
	}
}

// LoadConfig reads and validates the config at configPath. A missing file
// yields the defaults.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	config.fillDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) fillDefaults() {
	if c.Search.Debounce.Duration <= 0 {
		c.Search.Debounce = Duration{debounce.DefaultDelay}
	}
	if c.Search.Toast.Duration <= 0 {
		c.Search.Toast = Duration{DefaultToast}
	}
	if c.Search.DefaultFields == nil {
		c.Search.DefaultFields = append([]string(nil), index.DefaultFields...)
	}
	if c.Web.Host == "" {
		c.Web.Host = DefaultHost
	}
	if c.Web.Port == 0 {
		c.Web.Port = DefaultPort
	}
	if c.DefaultTab == "" && len(c.Tabs) > 0 {
		c.DefaultTab = c.TabIDs()[0]
	}
}

// TabIDs returns tab identifiers sorted by Order, then name.
func (c *Config) TabIDs() []string {
	ids := make([]string, 0, len(c.Tabs))
	for id := range c.Tabs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := c.Tabs[ids[i]], c.Tabs[ids[j]]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return ids[i] < ids[j]
	})
	return ids
}

// GetTab returns the tab named id, or the default tab when id is empty.
func (c *Config) GetTab(id string) (string, Tab, error) {
	if id == "" {
		id = c.DefaultTab
	}
	tab, ok := c.Tabs[id]
	if !ok {
		return "", Tab{}, fmt.Errorf("tab %s not found", id)
	}
	return id, tab, nil
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// SaveTemplateConfig writes the commented sample configuration.
func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(configPath, []byte(configTemplate), 0644)
}

// GetConfigDir returns the configuration directory for armory
func GetConfigDir() (string, error) {
	// Use XDG_CONFIG_HOME if set, otherwise use ~/.config
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	armoryDir := filepath.Join(configDir, "armory")
	if err := os.MkdirAll(armoryDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", armoryDir, err)
	}

	return armoryDir, nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
