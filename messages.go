package server

import "chain-racer/server/internal/sim"

type stateMessage struct {
	Type       string       `json:"type"`
	State      sim.Snapshot `json:"state"`
	ServerTime int64        `json:"serverTime"`
}
