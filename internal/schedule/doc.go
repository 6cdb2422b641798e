// Package schedule runs periodic jobs from cron expressions. The bot uses it
// to check the voice session for idleness.
package schedule
