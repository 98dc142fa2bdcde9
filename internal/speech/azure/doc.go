// Package azure implements the speech engine against the Azure Cognitive
// Services text-to-speech REST API.
package azure
