// Package domain defines core data models, interfaces and error kinds shared
// across cipherchat. It contains plain types (wire/state) and contracts only.
package domain
