// Package block groups the entities of one notebook entry: the process, the
// material it produced, the ingredients it consumed, and the measurements
// taken on the product.
//
// Entities are built independently, so LinkWithin wires the cross
// references before a block is encoded: ingredients point at the block
// process, the material points at the block process, and measurements point
// at the block material. Documents refuses to encode a block whose links are
// broken.
package block
