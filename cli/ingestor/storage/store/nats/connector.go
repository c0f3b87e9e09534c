package nats

/*
Settings that may (not must) appear in the storage config section:

host = "localhost"
port = "4222"
user = ""
password = ""
subject = "gps.fix"
*/

import (
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/pravinkori/gps-data-parser/cli/ingestor/fix"
)

const defaultSubject = "gps.fix"

type Connector struct {
	connection *nats.Conn
	subject    string
	config     map[string]string
}

func (c *Connector) Init(cfg map[string]string) error {
	var err error
	if cfg == nil {
		return fmt.Errorf("invalid storage configuration reference")
	}
	c.config = cfg

	c.subject = c.config["subject"]
	if c.subject == "" {
		c.subject = defaultSubject
	}

	url := fmt.Sprintf("nats://%s:%s", c.config["host"], c.config["port"])
	var opts []nats.Option
	if c.config["user"] != "" {
		opts = append(opts, nats.UserInfo(c.config["user"], c.config["password"]))
	}

	if c.connection, err = nats.Connect(url, opts...); err != nil {
		return fmt.Errorf("NATS connection error: %v", err)
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

	if err := c.connection.Publish(c.subject, data); err != nil {
		return fmt.Errorf("failed to publish message: %v", err)
	}
	return nil
}

func (c *Connector) Close() error {
	c.connection.Close()
	return nil
}
