package webmirror

const pageHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>tabledash</title>
<style>
body { background: #111; color: #ddd; font-family: monospace; margin: 1em; }
#bar { display: flex; flex-wrap: wrap; gap: 1em; border-bottom: 1px solid #444; padding-bottom: .5em; }
#bar span b { color: #5fafd7; }
#content { white-space: pre; margin-top: 1em; }
#footer { color: #888; border-top: 1px solid #444; padding-top: .5em; }
#link.down { color: #d75f5f; }
</style>
</head>
<body>
<div id="bar"></div>
<div id="content">waiting for the first status...</div>
<div id="footer"></div>
<div id="link">connecting...</div>
<script>
const order = ["connected","location","tables-amount","compression","master-node","persistence-queue","tcp-connections","http-connections","sync-queue"];
const labels = {"connected":"Connected","location":"Location","tables-amount":"Tables","compression":"Compression","master-node":"Master node","persistence-queue":"Persistence queue","tcp-connections":"TCP","http-connections":"HTTP","sync-queue":"Sync queue"};
const slots = {};
function drawBar() {
  const bar = document.getElementById("bar");
  bar.innerHTML = "";
  for (const id of order) {
    const el = document.createElement("span");
    const b = document.createElement("b");
    b.textContent = labels[id] + ": ";
    el.appendChild(b);
    el.appendChild(document.createTextNode(slots[id] || "---"));
    bar.appendChild(el);
  }
}
function connect() {
  const link = document.getElementById("link");
  const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
  ws.onopen = () => { link.textContent = "live"; link.className = ""; };
  ws.onclose = () => { link.textContent = "disconnected, retrying"; link.className = "down"; setTimeout(connect, 2000); };
  ws.onmessage = (ev) => {
    const msg = JSON.parse(ev.data);
    switch (msg.type) {
    case "state":
      Object.assign(slots, msg.slots || {});
      if (msg.content) document.getElementById("content").textContent = msg.content;
      document.getElementById("footer").textContent = msg.footer || "";
      drawBar();
      break;
    case "slot":
      slots[msg.slot] = msg.text;
      drawBar();
      break;
    case "content":
      document.getElementById("content").textContent = msg.text || "";
      break;
    case "footer":
      document.getElementById("footer").textContent = msg.text || "";
      break;
    }
  };
}
drawBar();
connect();
</script>
</body>
</html>
`
