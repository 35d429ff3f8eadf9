package image

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	createdTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stored_images_created_total",
		Help: "Stored image records created.",
	})
	reusedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stored_images_reused_total",
		Help: "Create requests answered with an existing active record.",
	})
	usageIncrementsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stored_images_usage_increments_total",
		Help: "Usage count increments, from reuse or fetch by id.",
	})
)
