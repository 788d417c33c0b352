package mcpserver

// NodeConventions describes the naming and structure conventions for
// contextual chain nodes that LLM consumers should follow when
// registering nodes or interpreting lineage results.
const NodeConventions = `# VoltBid Chain Node Conventions

Every node in the contextual heritage chain MUST follow these conventions.

## Identifiers

- Node IDs are lowercase, kebab-case strings, 1-100 characters
  (e.g. ` + "`" + `site-survey-42` + "`" + `, ` + "`" + `bid-20250115093000-a1b2c3d4` + "`" + `).
- IDs are unique across the whole chain. Registering an existing ID fails.

## Node types

- ` + "`" + `cost_code` + "`" + ` -- a catalog cost code root. IDs use the form
  ` + "`" + `cost-code-<code>` + "`" + ` (e.g. ` + "`" + `cost-code-evse-l2-panel` + "`" + `). These are
  usually roots (no parents).
- ` + "`" + `bid` + "`" + ` -- a generated bid. IDs use the form ` + "`" + `bid-<bid_number>` + "`" + `.
  Parents are the cost-code nodes of the bid line items.
- Any other type is allowed for custom analysis nodes (1-50 characters).

## Structure rules

1. **Parents must exist** before a child references them. Registration
   with an unknown parent is rejected.
2. **No cycles.** A node may not list itself as a parent, and may not
   list any of its own descendants.
3. **Depth is derived**, never supplied: a root has depth 0, any other
   node is one deeper than its deepest parent. Depth is capped by the
   server configuration.
4. **Metadata** is a free-form JSON object. Keep keys snake_case.

## Lineage semantics

- ` + "`" + `get_heritage_lineage` + "`" + ` returns ALL transitive ancestors ordered
  nearest first (direct parents before grandparents).
- When a node is reachable through several paths, the shortest path
  determines its position in the ordering.
`
