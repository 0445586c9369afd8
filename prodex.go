// Package prodex converts heterogeneous e-commerce product pages into
// normalized, schema-conformant product records. It extracts high-confidence
// structured data, distills readable page content, filters candidate product
// images, and reconciles the three signals through a schema-constrained
// generation step.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, trafilatura/, gemini/).
package prodex
