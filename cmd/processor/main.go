// standalone job worker
package main

import (
	"github.com/ds124wfegd/imagekit/config"
	"github.com/ds124wfegd/imagekit/internal/appServer"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	viperInstance, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Cannot load config. Error: {%s}", err.Error())
	}

	cfg, err := config.ParseConfig(viperInstance)
	if err != nil {
		logrus.Fatalf("Cannot parse config. Error: {%s}", err.Error())
	}

	// старые переменные окружения продолжают работать
	cfg.Kafka.Brokers = config.GetEnv("KAFKA_BROKERS", cfg.Kafka.Brokers)
	cfg.Kafka.Topic = config.GetEnv("KAFKA_TOPIC", cfg.Kafka.Topic)
	cfg.Kafka.GroupID = config.GetEnv("KAFKA_GROUP_ID", cfg.Kafka.GroupID)

	appServer.NewWorker(cfg)
}
