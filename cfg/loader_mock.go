package cfg

type MockLoader struct{}

func NewMockLoader() (*MockLoader, error) {
	return &MockLoader{}, nil
}

func (yl *MockLoader) Load() (*Config, error) {
	return &Config{
		// App
		App: App{
			Name:    "ci-crawler",
			Version: "0.0.1",
		},

		// Mysql
		Mysql: Mysql{
			Enabled:               false,
			Host:                  "127.0.0.1",
			Password:              "root",
			Username:              "root",
			Port:                  "3306",
			Database:              "ci_crawler",
			MaxIdleConnection:     10,
			MaxOpenConnection:     100,
			MaxLifeTimeConnection: 3600,
		},

		// Kafka
		Kafka: Kafka{
			Enabled: false,
			Brokers: []string{"127.0.0.1:9092"},
			Producer: KafkaProducer{
				TopicRecord: "harvested-records",
			},
		},

		// SearchApi
		SearchApi: SearchApi{
			ApiUrl:             "https://seart-ghs.si.usi.ch/api/r/search",
			Language:           "JavaScript",
			MinStars:           100,
			MinCommitDate:      "2023-01-01",
			MaxCommitDate:      "2024-01-01",
			SortKey:            "stargazers",
			SortDir:            "desc",
			PageSize:           100,
			MaxPages:           30,
			PageDelayMs:        1000,
			InsecureSkipVerify: true,
		},

		// GithubApi
		GithubApi: GithubApi{
			AccessToken:       "",
			ApiUrl:            "https://api.github.com",
			RequestsPerSecond: 2,
			QuotaFloor:        100,
			QuotaCooldownMin:  60,
			ProbeDelayMs:      500,
			GovernorEvery:     10,
			MaxWorkers:        10,
		},

		// Storage
		Storage: Storage{
			CandidatesFile: "data/candidates.json",
			OutputFile:     "data/records.json",
		},
	}, nil
}
