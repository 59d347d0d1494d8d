// Package domain contains the value types shared by the differencer, the
// classifier, the enrichment layer and the presentation adapters. They carry no
// behaviour beyond small derived accessors and are safe to copy.
package domain
