package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Game     GameConfig     `mapstructure:"game"`
	Dialogue DialogueConfig `mapstructure:"dialogue"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
}

type DatabaseConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Driver   string         `mapstructure:"driver"` // "gorm" or "sql"
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// GameConfig tunes the restaurant flow. Radii are planar world units,
// delays simulate the waiter walking over and bringing the menu.
type GameConfig struct {
	EntranceRadius float64       `mapstructure:"entrance_radius"`
	TableRadius    float64       `mapstructure:"table_radius"`
	NPCRadius      float64       `mapstructure:"npc_radius"`
	WaiterDelay    time.Duration `mapstructure:"waiter_delay"`
	MenuDelay      time.Duration `mapstructure:"menu_delay"`
	CookingGrace   time.Duration `mapstructure:"cooking_grace"`
}

type DialogueConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.http_address", ":8080")
	viper.SetDefault("server.rpc_address", ":8081")
	viper.SetDefault("server.metrics_address", ":9090")
	viper.SetDefault("game.entrance_radius", 5.0)
	viper.SetDefault("game.table_radius", 2.5)
	viper.SetDefault("game.npc_radius", 3.0)
	viper.SetDefault("game.waiter_delay", 2*time.Second)
	viper.SetDefault("game.menu_delay", 1500*time.Millisecond)
	viper.SetDefault("game.cooking_grace", 30*time.Second)
	viper.SetDefault("dialogue.model", "gpt-4o-mini")

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
