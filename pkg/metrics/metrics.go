package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// HTTP Метрики
// =============================================================================

// HttpRequestsTotal - счётчик всех HTTP запросов
// Пример запроса PromQL: rate(http_requests_total{service="pub-service"}[5m])
var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "path", "status"},
)

// HttpRequestDuration - гистограмма времени ответа
var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"service", "method", "path"},
)

// HttpRequestsInFlight - текущее количество обрабатываемых запросов
var HttpRequestsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
	[]string{"service"},
)

// =============================================================================
// Database Метрики
// =============================================================================

// DbQueryDuration - время выполнения SQL запросов
var DbQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"service", "operation", "table"},
)

// DbErrors - счётчик ошибок базы данных
var DbErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "db_errors_total",
		Help: "Total number of database errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Redis Метрики
// =============================================================================

var RedisCacheHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_hits_total",
		Help: "Total number of Redis cache hits",
	},
	[]string{"service", "key_prefix"},
)

var RedisCacheMisses = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_misses_total",
		Help: "Total number of Redis cache misses",
	},
	[]string{"service", "key_prefix"},
)

var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_errors_total",
		Help: "Total number of Redis errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Kafka Метрики
// =============================================================================

var KafkaMessagesProduced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_produced_total",
		Help: "Total number of Kafka messages produced",
	},
	[]string{"service", "topic"},
)

var KafkaProduceDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_produce_duration_seconds",
		Help:    "Duration of Kafka produce operations",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	},
	[]string{"service", "topic"},
)

var KafkaErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_errors_total",
		Help: "Total number of Kafka errors",
	},
	[]string{"service", "topic", "operation"},
)

// =============================================================================
// Business Метрики (PintPerfect)
// =============================================================================

// PubsCreated - созданные пабы
var PubsCreated = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "pubs_created_total",
		Help: "Total number of pubs created",
	},
)

// RatingsCreated - созданные оценки
var RatingsCreated = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "ratings_created_total",
		Help: "Total number of ratings created",
	},
)

// RatingScores - распределение оценок (шкала 1-10)
var RatingScores = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "rating_scores",
		Help:    "Distribution of submitted rating scores",
		Buckets: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
	},
)

// NearbySearches - поиски пабов рядом
var NearbySearches = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "nearby_searches_total",
		Help: "Total number of nearby pub searches",
	},
	[]string{"status"}, // ok, invalid, failed
)

// NearbyResults - количество пабов в ответе поиска рядом
var NearbyResults = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "nearby_results",
		Help:    "Number of pubs returned by nearby searches",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
	},
)

// PhotosUploaded - загруженные фотографии
var PhotosUploaded = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "photos_uploaded_total",
		Help: "Total number of photos uploaded",
	},
	[]string{"source"}, // multipart, base64
)

// UploadCleanupRemoved - файлы удаленные фоновой очисткой
var UploadCleanupRemoved = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "upload_cleanup_removed_total",
		Help: "Total number of orphaned upload files removed",
	},
)

// UploadCleanupRuns - запуски фоновой очистки
var UploadCleanupRuns = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "upload_cleanup_runs_total",
		Help: "Total number of upload cleanup runs",
	},
	[]string{"status"}, // success, failed
)
