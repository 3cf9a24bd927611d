package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port                          string `mapstructure:"PORT"`
	DatabasePath                  string `mapstructure:"DATABASE_PATH"`
	JWTSecret                     string `mapstructure:"JWT_SECRET"`
	DiscordBotToken               string `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
	ReminderLookaheadHours        int    `mapstructure:"REMINDER_LOOKAHEAD_HOURS"`
	ReminderIntervalMinutes       int    `mapstructure:"REMINDER_INTERVAL_MINUTES"`
	DispatchIntervalSeconds       int    `mapstructure:"DISPATCH_INTERVAL_SECONDS"`
	EnableCORS                    bool   `mapstructure:"ENABLE_CORS"`
}

func LoadConfig() *Config {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "tournest.db")
	viper.SetDefault("REMINDER_LOOKAHEAD_HOURS", 24)
	viper.SetDefault("REMINDER_INTERVAL_MINUTES", 15)
	viper.SetDefault("DISPATCH_INTERVAL_SECONDS", 30)

	viper.BindEnv("PORT")
	viper.BindEnv("DATABASE_PATH")
	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DISCORD_NOTIFICATIONS_CHANNEL_ID")
	viper.BindEnv("REMINDER_LOOKAHEAD_HOURS")
	viper.BindEnv("REMINDER_INTERVAL_MINUTES")
	viper.BindEnv("DISPATCH_INTERVAL_SECONDS")
	viper.BindEnv("ENABLE_CORS")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	return &config
}
