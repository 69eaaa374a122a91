// Package gemini implements summary.Provider on top of Google's Gemini API.
// Each configured model name becomes one provider in the fallback chain; all
// providers share a single API client.
package gemini
