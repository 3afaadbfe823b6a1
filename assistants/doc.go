// Package assistants provides the conversation loop of the agent:
// the model is called with the tool catalog, requested tools are executed
// in order and their results are fed back until the model stops asking for tools.
package assistants
