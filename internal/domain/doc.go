// Package domain holds the core types shared by the watchdog pipeline:
// sentiment signals, tickets, risk assessments, alert decisions, escalation
// plans, and trend snapshots. Types here are plain data; behaviour lives in
// the component packages that consume them.
package domain
