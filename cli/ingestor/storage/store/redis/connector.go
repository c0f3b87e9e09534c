package redis

/*
Settings that may (not must) appear in the storage config section:

host = "localhost"
port = "6379"
password = ""
db = "0"
channel = "gps:fix"
*/

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"

	"github.com/pravinkori/gps-data-parser/cli/ingestor/fix"
)

const defaultChannel = "gps:fix"

type Connector struct {
	client  *redis.Client
	channel string
	config  map[string]string
}

func (c *Connector) Init(cfg map[string]string) error {
	if cfg == nil {
		return fmt.Errorf("invalid storage configuration reference")
	}
	c.config = cfg

	c.channel = c.config["channel"]
	if c.channel == "" {
		c.channel = defaultChannel
	}

	db := 0
	if c.config["db"] != "" {
		var err error
		if db, err = strconv.Atoi(c.config["db"]); err != nil {
			return fmt.Errorf("failed to parse db number: %v", err)
		}
	}

	c.client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", c.config["host"], c.config["port"]),
		Password: c.config["password"],
		DB:       db,
	})

	if err := c.client.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("Redis is unreachable: %v", err)
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

	if err := c.client.Publish(context.Background(), c.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish message: %v", err)
	}
	return nil
}

func (c *Connector) Close() error {
	return c.client.Close()
}
