// Package linker orchestrates the end-to-end linking pipeline: span
// detection, agent enrichment, platform and smart-link resolution, and
// the final offset-safe rewrite.
//
// Each stage hands ownership of the entity slice to the next; per-entity
// failures downgrade to warnings so one unresolvable title never blocks
// the rest of the document. The retry flow replaces wrappers that carry
// the not-found sentinel instead of scanning for bare markers.
package linker
