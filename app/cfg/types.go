package cfg

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

type Cfg struct {
	// Application configuration
	Port              string
	EndpointsFile     string
	SchedulerInterval int
	FetchTimeout      int
	UserAgent         string
	SeedArticles      bool

	// Storage configuration
	Store  string
	DBPath string

	// Application metadata
	LogFile  string
	Timezone string
	Debug    bool
	Version  string
}
