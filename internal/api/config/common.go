package config

// Config 配置主体
type Config struct {
	Server                ServerConfig        `mapstructure:"server"`
	DB                    DBConfig            `mapstructure:"database"`
	Redis                 RedisConfig         `mapstructure:"redis"`
	Mongo                 MongoConfig         `mapstructure:"mongo"`
	MinIO                 MinIOConfig         `mapstructure:"minio"`
	Elastic               ElasticConfig       `mapstructure:"elastic"`
	Chat                  ChatConfig          `mapstructure:"chat"`
	Logstash              LogstashConfig      `mapstructure:"logstash"`
	Kafka                 KafkaConfig         `mapstructure:"kafka"`
	KafkaProducer         KafkaProducerConfig `mapstructure:"kafka_producer"`
	KafkaMetricConsumer   KafkaConsumerGroup  `mapstructure:"kafka_metric_consumer"`
	KafkaSearchConsumer   KafkaConsumerGroup  `mapstructure:"kafka_search_consumer"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// MongoConfig Mongo配置
type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	PublicEndpoint string `mapstructure:"public_endpoint"`
	AccessKey      string `mapstructure:"access_key"`
	SecretKey      string `mapstructure:"secret_key"`
	Bucket         string `mapstructure:"bucket"`
	UseSSL         bool   `mapstructure:"use_ssl"`
}

// ElasticConfig Elastic配置
type ElasticConfig struct {
	Address   string `mapstructure:"address"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	PostIndex string `mapstructure:"post_index"`
}

// ChatConfig 第三方聊天服务配置
type ChatConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	AppKey    string `mapstructure:"app_key"`
	AppSecret string `mapstructure:"app_secret"`
}

// LogstashConfig 日志上报配置
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

type KafkaProducerConfig struct {
	Topic string `mapstructure:"topic"`
}

type KafkaConsumerGroup struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}
