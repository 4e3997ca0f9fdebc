package config

// DefaultGenerationPrompt is formatted with the graph schema and then the
// natural-language question.
const DefaultGenerationPrompt = `You translate questions into openCypher queries for an Apache AGE graph.

Graph schema:
%s

Question:
%s

Return the nodes and relationships that answer the question, not only scalar
properties. Answer with a single JSON object and nothing else:
{"query": "<the cypher query>", "reasoning": "<one or two sentences>"}`
