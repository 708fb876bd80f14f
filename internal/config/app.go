package config

type AppConfig struct {
	Bot BotConfig
	Log LogConfig
}

func LoadApp() (AppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	botCfg, err := LoadBot()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Bot: botCfg,
		Log: logCfg,
	}, nil
}
