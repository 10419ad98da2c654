package main

import (
	"flag"
	"log"
	"os"
	"reflect"
	"strings"

	"github.com/robotalks/rccar.go/pkg/l1/comm/mqtt"
	"github.com/robotalks/rccar.go/pkg/l1/msgs"
)

var (
	mqttURL = "mqtt://localhost:1883/"
)

func init() {
	if val := os.Getenv("RCCAR_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}

	q.Sub("+/+/"+mqtt.TopicMeta, func(topic string, payload []byte) {
		if len(payload) == 0 {
			log.Printf("%s: gone", strings.TrimSuffix(topic, "/"+mqtt.TopicMeta))
			return
		}
		log.Printf("%s: %s", topic, string(payload))
	})
	q.Sub("+/+/"+mqtt.TopicStatus, func(topic string, payload []byte) {
		typed, msg, err := msgs.Decode(payload)
		if err != nil {
			if typed != nil {
				log.Printf("%s: decode error: (type_id=%x) %v", topic, typed.TypeId, err)
			} else {
				log.Printf("%s: bad message: %v", topic, err)
			}
			return
		}
		log.Printf("%s: #%d [%s] %s", topic, typed.Sequence,
			reflect.Indirect(reflect.ValueOf(msg)).Type().Name(), msg.String())
	})
	if err := q.ConnectAndWait(); err != nil {
		log.Fatalln(err)
	}
	<-(chan struct{})(nil)
}
