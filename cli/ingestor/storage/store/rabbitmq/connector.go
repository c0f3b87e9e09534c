package rabbitmq

/*
Settings that may (not must) appear in the storage config section:

host = "localhost"
port = "5672"
user = "guest"
password = "guest"
exchange = "gps"
routing_key = "fix"
*/

import (
	"fmt"

	"github.com/streadway/amqp"

	"github.com/pravinkori/gps-data-parser/cli/ingestor/fix"
)

type Connector struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	config     map[string]string
}

func (c *Connector) Init(cfg map[string]string) error {
	var err error
	if cfg == nil {
		return fmt.Errorf("invalid storage configuration reference")
	}
	c.config = cfg

	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.config["user"], c.config["password"], c.config["host"], c.config["port"])
	if c.connection, err = amqp.Dial(url); err != nil {
		return fmt.Errorf("RabbitMQ connection error: %v", err)
	}

	if c.channel, err = c.connection.Channel(); err != nil {
		return fmt.Errorf("failed to open a channel: %v", err)
	}

	err = c.channel.ExchangeDeclare(
		c.config["exchange"],
		"fanout",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %v", err)
	}
	return nil
}

func (c *Connector) Save(f *fix.Fix) error {
	if f == nil {
		return fmt.Errorf("invalid fix reference")
	}

	data, err := f.ToBytes()
	if err != nil {
		return fmt.Errorf("fix serialization error: %v", err)
	}

	err = c.channel.Publish(
		c.config["exchange"],
		c.config["routing_key"],
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        data,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %v", err)
	}
	return nil
}

func (c *Connector) Close() error {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	return c.connection.Close()
}
