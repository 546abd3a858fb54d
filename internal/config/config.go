package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Port           string `mapstructure:"PORT"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`

	RedisAddr string `mapstructure:"REDIS_ADDR"`
	JWTSecret string `mapstructure:"JWT_SECRET"`

	CheckoutBaseURL      string `mapstructure:"CHECKOUT_BASE_URL"`
	CheckoutSecretKey    string `mapstructure:"CHECKOUT_SECRET_KEY"`
	UsdtDepositAddress   string `mapstructure:"USDT_DEPOSIT_ADDRESS"`
	TelecomBillingNumber string `mapstructure:"TELECOM_BILLING_NUMBER"`
}

func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	// ВАЖНО: Явно биндим
	viper.BindEnv("PORT")
	viper.BindEnv("ALLOWED_ORIGINS")
	viper.BindEnv("DB_HOST")
	viper.BindEnv("DB_PORT")
	viper.BindEnv("DB_USER")
	viper.BindEnv("DB_PASSWORD")
	viper.BindEnv("DB_NAME")
	viper.BindEnv("REDIS_ADDR")
	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("CHECKOUT_BASE_URL")
	viper.BindEnv("CHECKOUT_SECRET_KEY")
	viper.BindEnv("USDT_DEPOSIT_ADDRESS")
	viper.BindEnv("TELECOM_BILLING_NUMBER")

	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
	}

	err = viper.Unmarshal(&config)
	return
}
