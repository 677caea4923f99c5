package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"circuitquest-service/internal/config"
	"circuitquest-service/internal/domain"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
)

// NewSeedCmd loads the round's question set and component catalog into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the question and component catalogs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runSeed(cmd.Context(), cfg)
		},
	}
}

func runSeed(ctx context.Context, cfg config.Config) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	db := openBun(cfg.Postgres.URL)
	defer db.Close()

	if err := upsertQuestions(ctx, db, sampleQuestions()); err != nil {
		return err
	}
	if err := upsertComponents(ctx, db, sampleComponents()); err != nil {
		return err
	}
	log.Printf("seeded %d questions and %d components", len(sampleQuestions()), len(sampleComponents()))
	return nil
}

func upsertQuestions(ctx context.Context, db *bun.DB, questions []domain.Question) error {
	for _, q := range questions {
		data, err := json.Marshal(q)
		if err != nil {
			return fmt.Errorf("marshal question %s: %w", q.ID, err)
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO questions (id, data) VALUES (?, ?::jsonb) ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`,
			q.ID, string(data)); err != nil {
			return fmt.Errorf("seed question %s: %w", q.ID, err)
		}
	}
	return nil
}

func upsertComponents(ctx context.Context, db *bun.DB, components []domain.Component) error {
	for _, c := range components {
		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshal component %s: %w", c.ID, err)
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO components (id, data) VALUES (?, ?::jsonb) ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`,
			c.ID, string(data)); err != nil {
			return fmt.Errorf("seed component %s: %w", c.ID, err)
		}
	}
	return nil
}

// sampleQuestions is the round's shipped question set; also the static
// fallback when no database is configured.
func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:       "rq01",
			Text:     "Your autonomous robot stops when an obstacle appears. The microcontroller did not see the obstacle directly; something else alerted it. Which component made this possible?",
			Options:  []string{"Actuator", "Controller", "Sensor", "Communication Module"},
			Answer:   "2",
			Points:   100,
			Active:   true,
			Category: "iot",
		},
		{
			ID:       "rq02",
			Text:     "A temperature sensor outputs 20 mV but your ADC needs at least 1 V. Which stage brings the signal to a readable level without distorting it?",
			Options:  []string{"Signal Scaling", "Amplifier", "Resistor", "Filter"},
			Answer:   "0",
			Points:   100,
			Active:   true,
			Category: "electronics",
		},
		{
			ID:       "rq03",
			Text:     "I neither sense nor move, yet nothing happens without my decision. I execute every coded instruction. Who am I?",
			Options:  []string{"Actuator", "Controller (MCU)", "Sensor", "Power Supply"},
			Answer:   "1",
			Points:   100,
			Active:   true,
			Category: "electronics",
		},
		{
			ID:       "rq04",
			Text:     "A weather node must send temperature and humidity readings wirelessly to a dashboard 2 km away. Which unit ensures that connection?",
			Options:  []string{"Actuator", "Communication Module", "Cloud Storage", "Controller"},
			Answer:   "1",
			Points:   100,
			Active:   true,
			Category: "networking",
		},
		{
			ID:       "rq05",
			Text:     "You want to view months of logged sensor data from anywhere on your laptop. Where should it be stored for remote access and long-term analysis?",
			Options:  []string{"EEPROM", "Local Flash Memory", "Cloud / Database Storage", "RAM"},
			Answer:   "2",
			Points:   100,
			Active:   true,
			Category: "iot",
		},
		{
			ID:       "rq06",
			Text:     "The system detects a high room temperature and switches on a cooling fan. Which element performs the physical action?",
			Options:  []string{"Controller", "Sensor", "Actuator", "Signal Scaling"},
			Answer:   "2",
			Points:   100,
			Active:   true,
			Category: "iot",
		},
		{
			ID:       "rq07",
			Text:     "I don't move or glow, yet I control what flows. Too much of anything can harm, so I keep the current in check. Who am I?",
			Options:  []string{"Capacitor", "Inductor", "Diode", "Resistor"},
			Answer:   "3",
			Points:   100,
			Active:   true,
			Category: "electronics",
		},
		{
			ID:       "rq08",
			Text:     "A supply voltage briefly dips but the circuit keeps running for a moment. Which component released stored charge during the dip?",
			Options:  []string{"Resistor", "Capacitor", "Inductor", "Diode"},
			Answer:   "1",
			Points:   100,
			Active:   true,
			Category: "electronics",
		},
		{
			ID:       "rq09",
			Text:     "Current tries to flow both ways, but one component allows it in only one direction, blocking the reverse path. Which one?",
			Options:  []string{"Capacitor", "Resistor", "Inductor", "Diode"},
			Answer:   "3",
			Points:   100,
			Active:   true,
			Category: "electronics",
		},
		{
			ID:       "rq10",
			Text:     "When current rises or falls I store energy in my magnetic field, only to give it back later. Who am I?",
			Options:  []string{"Capacitor", "Diode", "Resistor", "Inductor"},
			Answer:   "3",
			Points:   100,
			Active:   true,
			Category: "electronics",
		},
		{
			ID:       "rq11",
			Text:     "During a circuit simulation task you need to select, drag, and drop components on screen. Which device performs these precise actions?",
			Options:  []string{"Keyboard", "Joystick", "Mouse", "Trackpad"},
			Answer:   "2",
			Points:   100,
			Active:   true,
			Category: "hardware",
		},
		{
			ID:       "rq12",
			Text:     "While programming your microcontroller you type commands into the IDE. Which input device enters this code?",
			Options:  []string{"Touchscreen", "Keyboard", "Mouse", "Microphone"},
			Answer:   "1",
			Points:   100,
			Active:   true,
			Category: "hardware",
		},
	}
}

// sampleComponents mirrors the shipped component shop.
func sampleComponents() []domain.Component {
	return []domain.Component{
		{ID: "cmp-sensor", Name: "Sensor", Type: "sensor", Icon: "📡", Description: "Detects environmental changes and signals the controller", Price: 150, Available: true},
		{ID: "cmp-scaling", Name: "Signal Scaling", Type: "signal", Icon: "⚡", Description: "Amplifies or scales signals to readable voltage levels", Price: 80, Available: true},
		{ID: "cmp-mcu", Name: "Controller (MCU)", Type: "controller", Icon: "🧠", Description: "Processes all logic and control functions", Price: 250, Available: true},
		{ID: "cmp-comm", Name: "Communication Module", Type: "communication", Icon: "📶", Description: "Handles wireless data transmission between devices", Price: 120, Available: true},
		{ID: "cmp-cloud", Name: "Cloud / Database Storage", Type: "cloud", Icon: "☁", Description: "Stores collected data for remote access and analysis", Price: 50, Available: true},
		{ID: "cmp-actuator", Name: "Actuator", Type: "actuator", Icon: "🔌", Description: "Performs mechanical action from control signals", Price: 100, Available: true},
		{ID: "cmp-resistor", Name: "Resistor", Type: "other", Icon: "🌀", Description: "Controls current flow and limits excessive voltage", Price: 20, Available: true},
		{ID: "cmp-capacitor", Name: "Capacitor", Type: "other", Icon: "💾", Description: "Stores and releases energy, stabilizing the supply", Price: 30, Available: true},
		{ID: "cmp-diode", Name: "Diode", Type: "other", Icon: "➡", Description: "Allows current in one direction only", Price: 40, Available: true},
		{ID: "cmp-inductor", Name: "Inductor", Type: "other", Icon: "🧲", Description: "Stores energy magnetically, resists sudden current change", Price: 60, Available: true},
		{ID: "cmp-mouse", Name: "Mouse", Type: "other", Icon: "🖱", Description: "Selects and manipulates components during simulation", Price: 30, Available: true},
		{ID: "cmp-keyboard", Name: "Keyboard", Type: "other", Icon: "⌨", Description: "Enters commands and code into the IDE", Price: 70, Available: true},
	}
}
