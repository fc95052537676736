// Package main contains a bridge that runs wrench samples streamed over MQTT
// through a filter chain and republishes the corrected results.
package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/edaniels/golog"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"go.viam.com/controlfilters/config"
	"go.viam.com/controlfilters/filter"
	"go.viam.com/controlfilters/referenceframe"

	// register the filter models
	_ "go.viam.com/controlfilters/filter/gravitycompensation"
	_ "go.viam.com/controlfilters/filter/lowpass"
)

var logger = golog.NewDevelopmentLogger("wrenchpipe")

func main() {
	goutils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	ConfigFile  string `flag:"config,required,usage=path to the JSON config file"`
	OutputFrame string `flag:"output-frame,usage=frame to express corrected wrenches in (default: each sample's own frame)"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments
	if err := goutils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	cfg, err := config.Read(argsParsed.ConfigFile)
	if err != nil {
		return err
	}
	fs, err := cfg.BuildFrameSystem()
	if err != nil {
		return err
	}
	chain, err := filter.NewChain(ctx, "wrenchpipe", cfg.Filters, fs, logger)
	if err != nil {
		return err
	}
	return runBridge(ctx, cfg.MQTT, chain, argsParsed.OutputFrame, logger)
}

// wrenchMessage is the JSON wire form of a stamped wrench sample.
type wrenchMessage struct {
	Frame  string    `json:"frame"`
	Force  vector3   `json:"force"`
	Torque vector3   `json:"torque"`
	Time   time.Time `json:"time"`
}

type vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func runBridge(
	ctx context.Context,
	mc config.MQTTConfig,
	chain *filter.Chain,
	outputFrame string,
	logger golog.Logger,
) error {
	opts := mqtt.NewClientOptions().
		AddBroker(mc.Broker).
		SetClientID(mc.ClientID)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return errors.Wrapf(token.Error(), "cannot connect to MQTT broker %q", mc.Broker)
	}
	defer client.Disconnect(250)
	logger.Infow("connected to MQTT broker", "broker", mc.Broker)

	handle := func(_ mqtt.Client, msg mqtt.Message) {
		var raw wrenchMessage
		if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
			logger.Errorw("cannot parse wrench sample", "error", err)
			return
		}
		in := referenceframe.Wrench{
			FrameName:  raw.Frame,
			Force:      r3.Vector{X: raw.Force.X, Y: raw.Force.Y, Z: raw.Force.Z},
			Torque:     r3.Vector{X: raw.Torque.X, Y: raw.Torque.Y, Z: raw.Torque.Z},
			CapturedAt: raw.Time,
		}
		out := referenceframe.Wrench{FrameName: raw.Frame}
		if outputFrame != "" {
			out.FrameName = outputFrame
		}
		if err := chain.Update(ctx, &in, &out); err != nil {
			// a failed sample is skipped; the next one looks up fresh transforms
			logger.Errorw("skipping sample", "frame", raw.Frame, "error", err)
			return
		}
		payload, err := json.Marshal(wrenchMessage{
			Frame:  out.FrameName,
			Force:  vector3{X: out.Force.X, Y: out.Force.Y, Z: out.Force.Z},
			Torque: vector3{X: out.Torque.X, Y: out.Torque.Y, Z: out.Torque.Z},
			Time:   out.CapturedAt,
		})
		if err != nil {
			logger.Errorw("cannot encode corrected wrench", "error", err)
			return
		}
		if token := client.Publish(mc.OutputTopic, 0, false, payload); token.Wait() && token.Error() != nil {
			logger.Errorw("cannot publish corrected wrench", "error", token.Error())
		}
	}
	if token := client.Subscribe(mc.InputTopic, 0, handle); token.Wait() && token.Error() != nil {
		return errors.Wrapf(token.Error(), "cannot subscribe to %q", mc.InputTopic)
	}
	logger.Infow("bridging wrench samples",
		"input_topic", mc.InputTopic, "output_topic", mc.OutputTopic)

	<-ctx.Done()
	return nil
}
