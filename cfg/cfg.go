package cfg

type (
	App struct {
		Name    string
		Version string
	}

	Mysql struct {
		Enabled               bool
		Host                  string
		Port                  string
		Username              string
		Password              string
		Database              string
		MaxIdleConnection     int
		MaxOpenConnection     int
		MaxLifeTimeConnection int
	}

	Kafka struct {
		Enabled  bool
		Brokers  []string
		Producer KafkaProducer
	}

	KafkaProducer struct {
		TopicRecord string
	}

	SearchApi struct {
		ApiUrl        string
		Language      string
		MinStars      int
		MinCommitDate string
		MaxCommitDate string
		SortKey       string
		SortDir       string
		PageSize      int
		MaxPages      int
		PageDelayMs   int
		// The search service presents a certificate the default pool
		// rejects. Skipping verification must be opted into here.
		InsecureSkipVerify bool
	}

	GithubApi struct {
		AccessToken       string
		ApiUrl            string
		RequestsPerSecond int
		QuotaFloor        int
		QuotaCooldownMin  int
		ProbeDelayMs      int
		GovernorEvery     int
		MaxWorkers        int
	}

	Storage struct {
		CandidatesFile string
		OutputFile     string
	}
)

type Config struct {
	App       App
	Mysql     Mysql
	Kafka     Kafka
	SearchApi SearchApi
	GithubApi GithubApi
	Storage   Storage
}
