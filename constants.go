package server

import "time"

// writeWait bounds a single websocket write to a spectator.
const writeWait = 10 * time.Second
