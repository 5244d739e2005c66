// Package domain models earthquake origins, tectonic-region classification,
// and weighted GMPE (ground-motion prediction equation) assignments.
//
// # Tectonic categories
//
// Every earthquake is classified against four mutually exclusive tectonic
// categories: active crustal (acr), stable continental (scr), volcanic, and
// subduction. An external STREC-like classification service reports, for a
// hypocenter, the horizontal distance to the nearest region of each category
// (zero when the point lies inside one), plus subduction-specific geometry:
// the local slab-model depth and its uncertainty, the maximum depth of the
// subduction interface, and the Kagan angle between the event's moment
// tensor and the interface orientation. The Kagan angle is undefined when no
// moment tensor is available; the selection config carries a default
// probability for that case, so an absent angle is not an error.
//
// # Weighted assignments
//
// The selection engine composes the classification into an ordered list of
// (GMPE identifier, weight) pairs whose weights sum to 1. The Provenance
// record preserves the per-category and per-depth-layer breakdown that
// produced the list, for audit logging and for writing event-specific
// configuration fragments downstream.
//
// # External capabilities
//
// The two external lookups (tectonic classification and geographic
// override-layer distances) are modeled as interfaces, TectonicClassifier
// and LayerDistancer, so the engine stays pure and testable with
// deterministic fakes. This package performs no geometry; distances arrive precomputed.
package domain
