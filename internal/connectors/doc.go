// Package connectors provides implementations of the Connector interface
// for the supported document sources. Each connector knows how to fetch
// documents from a specific source type (web, Notion export).
package connectors
