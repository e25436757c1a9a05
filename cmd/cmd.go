// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles configuration bootstrap.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a starter config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "path",
						Aliases: []string{"p"},
						Usage:   "Where to write the config file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// systemCommand handles device-level operations
func systemCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "system",
		Aliases: []string{"sys"},
		Usage:   "Device info, battery, wifi, and system maintenance",
		Commands: []*cli.Command{
			{
				Name:   "info",
				Usage:  "Show device information",
				Flags:  []cli.Flag{prettyFlag()},
				Action: r.SystemInfo,
			},
			{
				Name:   "battery",
				Usage:  "Show battery charge",
				Action: r.SystemBattery,
			},
			{
				Name:  "wifi",
				Usage: "Wifi network operations",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List saved wifi networks",
						Flags:  []cli.Flag{prettyFlag()},
						Action: r.WifiList,
					},
					{
						Name:   "scan",
						Usage:  "Scan for nearby wifi networks",
						Flags:  []cli.Flag{prettyFlag()},
						Action: r.WifiScan,
					},
					{
						Name:  "connect",
						Usage: "Save and connect to a wifi network",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "ssid"},
						},
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "password",
								Usage: "Network password (omit to connect to a saved network)",
							},
						},
						Action: r.WifiConnect,
					},
					{
						Name:  "forget",
						Usage: "Forget a saved wifi network",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "ssid"},
						},
						Action: r.WifiForget,
					},
				},
			},
			{
				Name:  "logs",
				Usage: "Fetch device logs",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "date",
						Usage: "Log date (YYYY-MM-DD, default today)",
					},
				},
				Action: r.SystemLogs,
			},
			{
				Name:  "flashlight",
				Usage: "Toggle the flashlight",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "off",
						Usage: "Turn the flashlight off instead of on",
					},
				},
				Action: r.SystemFlashlight,
			},
			{
				Name:  "update",
				Usage: "Check for and optionally apply firmware updates",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "apply",
						Usage: "Apply the update if one is available",
					},
				},
				Action: r.SystemUpdate,
			},
			{
				Name:  "reboot",
				Usage: "Reboot the robot",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "core-only",
						Usage: "Reboot only the Windows core",
					},
				},
				Action: r.SystemReboot,
			},
			{
				Name:  "backpack",
				Usage: "Send a serial message to the backpack",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "message"},
				},
				Action: r.SystemBackpack,
			},
		},
	}
}

// imageCommand handles image asset and display operations
func imageCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "image",
		Aliases: []string{"img"},
		Usage:   "Image assets, display, and camera",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List image assets on the robot",
				Flags:  []cli.Flag{prettyFlag()},
				Action: r.ImageList,
			},
			{
				Name:  "upload",
				Usage: "Upload an image file to the robot",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "apply",
						Usage: "Display the image immediately after upload",
					},
					&cli.BoolFlag{
						Name:  "overwrite",
						Usage: "Overwrite an existing asset with the same name",
						Value: true,
					},
				},
				Action: r.ImageUpload,
			},
			{
				Name:  "display",
				Usage: "Show an image asset on the screen",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.FloatFlag{
						Name:  "timeout",
						Usage: "Seconds to show the image (0 = indefinitely)",
					},
					&cli.FloatFlag{
						Name:  "alpha",
						Usage: "Image transparency",
						Value: 1,
					},
				},
				Action: r.ImageDisplay,
			},
			{
				Name:  "delete",
				Usage: "Delete an image asset",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Action: r.ImageDelete,
			},
			{
				Name:  "led",
				Usage: "Set the chest LED color",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "hex"},
				},
				Action: r.ImageLED,
			},
			{
				Name:  "capture",
				Usage: "Take a picture with the RGB camera",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: the robot's file name)",
					},
				},
				Action: r.ImageCapture,
			},
		},
	}
}

// audioCommand handles audio asset and playback operations
func audioCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "audio",
		Usage: "Audio assets, playback, and recording",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List audio assets on the robot",
				Flags:  []cli.Flag{prettyFlag()},
				Action: r.AudioList,
			},
			{
				Name:  "upload",
				Usage: "Upload an audio file to the robot",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "play",
						Usage: "Play the clip immediately after upload",
					},
					&cli.BoolFlag{
						Name:  "overwrite",
						Usage: "Overwrite an existing asset with the same name",
						Value: true,
					},
				},
				Action: r.AudioUpload,
			},
			{
				Name:  "play",
				Usage: "Play an audio asset",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "volume",
						Usage: "Playback volume (1-100)",
						Value: 50,
					},
					&cli.BoolFlag{
						Name:  "wait",
						Usage: "Block until playback completes",
					},
				},
				Action: r.AudioPlay,
			},
			{
				Name:   "stop",
				Usage:  "Stop audio playback",
				Action: r.AudioStop,
			},
			{
				Name:  "delete",
				Usage: "Delete an audio asset",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Action: r.AudioDelete,
			},
			{
				Name:  "volume",
				Usage: "Set the default volume",
				Arguments: []cli.Argument{
					&cli.IntArg{Name: "level"},
				},
				Action: r.AudioVolume,
			},
			{
				Name:  "record",
				Usage: "Record from the microphone to an on-robot file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "seconds",
						Usage: "Recording duration",
						Value: 5,
					},
				},
				Action: r.AudioRecord,
			},
			{
				Name:   "keyphrase",
				Usage:  "Wait for the robot to hear its key phrase",
				Action: r.AudioKeyPhrase,
			},
		},
	}
}

// faceCommand handles face training and recognition
func faceCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "face",
		Usage: "Face training and recognition",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List trained faces",
				Action: r.FaceList,
			},
			{
				Name:  "train",
				Usage: "Train a new face and wait for completion",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.FaceTrain,
			},
			{
				Name:  "delete",
				Usage: "Delete a trained face",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Delete every trained face",
					},
				},
				Action: r.FaceDelete,
			},
			{
				Name:  "recognize",
				Usage: "Stream face recognition events until interrupted",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "debounce",
						Usage: "Event debounce in milliseconds",
						Value: 1000,
					},
				},
				Action: r.FaceRecognize,
			},
		},
	}
}

// moveCommand handles locomotion, head, and arm movement
func moveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "move",
		Usage: "Drive the robot and position its head and arms",
		Commands: []*cli.Command{
			{
				Name:  "drive",
				Usage: "Drive with linear and angular velocity",
				Flags: []cli.Flag{
					&cli.FloatFlag{
						Name:    "linear",
						Aliases: []string{"l"},
						Usage:   "Linear velocity percent (-100 to 100)",
					},
					&cli.FloatFlag{
						Name:    "angular",
						Aliases: []string{"a"},
						Usage:   "Angular velocity percent (-100 to 100)",
					},
					&cli.IntFlag{
						Name:  "time",
						Usage: "Drive duration in milliseconds (0 = until stopped)",
					},
				},
				Action: r.MoveDrive,
			},
			{
				Name:  "head",
				Usage: "Position the head",
				Flags: []cli.Flag{
					&cli.FloatFlag{Name: "pitch", Usage: "Pitch (-100 to 100)", Value: floatFlagUnset},
					&cli.FloatFlag{Name: "roll", Usage: "Roll (-100 to 100)", Value: floatFlagUnset},
					&cli.FloatFlag{Name: "yaw", Usage: "Yaw (-100 to 100)", Value: floatFlagUnset},
					&cli.FloatFlag{Name: "velocity", Usage: "Movement velocity (0 to 100)", Value: floatFlagUnset},
				},
				Action: r.MoveHead,
			},
			{
				Name:  "arms",
				Usage: "Position one or both arms",
				Flags: []cli.Flag{
					&cli.FloatFlag{Name: "left", Usage: "Left arm position (-100 to 100)", Value: floatFlagUnset},
					&cli.FloatFlag{Name: "right", Usage: "Right arm position (-100 to 100)", Value: floatFlagUnset},
					&cli.FloatFlag{Name: "velocity", Usage: "Movement velocity (0 to 100)", Value: 60},
				},
				Action: r.MoveArms,
			},
			{
				Name:   "stop",
				Usage:  "Stop driving",
				Action: r.MoveStop,
			},
			{
				Name:   "halt",
				Usage:  "Halt every motor immediately",
				Action: r.MoveHalt,
			},
		},
	}
}

// listenCommand streams sensor events to the terminal or a database
func listenCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "listen",
		Usage: "Stream a sensor event feed until interrupted",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "event"},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "debounce",
				Usage: "Event debounce in milliseconds",
				Value: 250,
			},
			&cli.StringFlag{
				Name:  "property",
				Usage: "Return only this property from each event",
			},
			&cli.BoolFlag{
				Name:  "record",
				Usage: "Record events to the configured SQLite store",
			},
		},
		Action: r.Listen,
	}
}

// exportCommand writes recorded events out of the SQLite store
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export recorded sensor events to CSV, Markdown, or plain text",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: csv, markdown, or text",
				Value:   "csv",
			},
			&cli.StringFlag{
				Name:  "type",
				Usage: "Export only this event type",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Export at most this many events, newest first",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output path (csv uses it as the base filename)",
			},
			&cli.StringFlag{
				Name:  "title",
				Usage: "Title for markdown and text exports",
			},
		},
		Action: r.ExportEvents,
	}
}

// backupCommand downloads robot assets to local disk
func backupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Download image and audio assets from the robot",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: misty_backup_{epoch})",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent downloads",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Max requests per second against the robot",
			},
			&cli.BoolFlag{
				Name:  "images-only",
				Usage: "Back up only image assets",
			},
			&cli.BoolFlag{
				Name:  "audio-only",
				Usage: "Back up only audio assets",
			},
		},
		Action: r.Backup,
	}
}

// apiCommand handles direct API calls for debugging
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the robot",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags:  []cli.Flag{prettyFlag()},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// monitorCommand launches the live event dashboard
func monitorCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "monitor",
		Aliases: []string{"tui"},
		Usage:   "Launch a live dashboard of sensor event streams",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "event",
				Aliases: []string{"e"},
				Usage:   "Event type to watch (repeatable, default: BatteryCharge, TouchSensor, BumpSensor)",
			},
			&cli.IntFlag{
				Name:  "debounce",
				Usage: "Event debounce in milliseconds",
				Value: 250,
			},
		},
		Action: r.Monitor,
	}
}

func prettyFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "pretty",
		Usage: "Pretty-print output",
		Value: true,
	}
}
